package database

import (
	"log"
	"time"

	"tour_booking/constants"
	"tour_booking/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func parseDate(dateStr string) time.Time {
	t, _ := time.Parse("2006-01-02", dateStr)
	return t
}

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("admin123!"), 10)
	hashedPassword := string(bytes)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}

	accounts := []model.Account{
		{Username: "administrator", Password: hashedPassword, Active: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed account:", account.Username, "error:", err)
		}
	}

	destinations := []model.Destination{
		{Name: "Raja Ampat", Slug: "raja-ampat", Province: "West Papua"},
		{Name: "Mount Bromo", Slug: "mount-bromo", Province: "East Java"},
		{Name: "Labuan Bajo", Slug: "labuan-bajo", Province: "East Nusa Tenggara"},
	}
	for _, dest := range destinations {
		if err := db.Where(model.Destination{Slug: dest.Slug}).FirstOrCreate(&dest).Error; err != nil {
			log.Println("failed to seed destination:", dest.Name, "error:", err)
		}
	}

	var count int64
	db.Model(&model.TourPackage{}).Count(&count)
	if count > 0 {
		return
	}

	var bromo model.Destination
	db.Where("slug = ?", "mount-bromo").First(&bromo)

	pkg := model.TourPackage{
		Name:          "Bromo Sunrise 3D2N",
		Slug:          "bromo-sunrise-3d2n",
		Description:   "Three days around the Tengger caldera with a sunrise jeep tour.",
		Price:         2000000,
		Capacity:      20,
		DurationDays:  3,
		DestinationID: &bromo.ID,
		Schedules: []model.PackageSchedule{
			{StartDate: parseDate("2026-10-09"), EndDate: parseDate("2026-10-11")},
			{StartDate: parseDate("2026-11-13"), EndDate: parseDate("2026-11-15")},
		},
	}
	if err := db.Create(&pkg).Error; err != nil {
		log.Println("failed to seed tour package:", err)
	}
}
