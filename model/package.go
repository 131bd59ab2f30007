package model

import "time"

type TourPackage struct {
	DTO
	Name          string            `json:"name"`
	Slug          string            `gorm:"unique;size:150" json:"slug"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"` // per participant
	Capacity      int               `json:"capacity"`
	DurationDays  int               `json:"durationDays"`
	IsActive      bool              `gorm:"default:true" json:"isActive"`
	DestinationID *uint             `json:"destinationId,omitempty"`
	Destination   *Destination      `json:"destination,omitempty"`
	Schedules     []PackageSchedule `gorm:"foreignKey:PackageID" json:"schedules,omitempty"`
}

type PackageSchedule struct {
	DTO
	PackageID uint      `gorm:"index" json:"packageId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type ScheduleInput struct {
	StartDate string `json:"startDate" validate:"required"` // 2006-01-02
	EndDate   string `json:"endDate" validate:"required"`
}

type CreatePackageInput struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         float64         `json:"price" validate:"required,gt=0"`
	Capacity      int             `json:"capacity" validate:"required,gt=0"`
	DurationDays  int             `json:"durationDays" validate:"gte=0"`
	DestinationID *uint           `json:"destinationId"`
	Schedules     []ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}

type EditPackageInput struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Capacity      int     `json:"capacity" validate:"required,gt=0"`
	DurationDays  int     `json:"durationDays" validate:"gte=0"`
	DestinationID *uint   `json:"destinationId"`
	IsActive      *bool   `json:"isActive"`
}
