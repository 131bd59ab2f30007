package model

type Destination struct {
	DTO
	Name        string `json:"name"`
	Slug        string `gorm:"unique;size:150" json:"slug"`
	Province    string `json:"province"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl"`
}

type CreateDestinationInput struct {
	Name        string `json:"name" validate:"required"`
	Province    string `json:"province" validate:"required"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl"`
}

type EditDestinationInput struct {
	Name        string `json:"name" validate:"required"`
	Province    string `json:"province" validate:"required"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl"`
}
