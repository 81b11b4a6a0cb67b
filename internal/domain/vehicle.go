package domain

import "time"

type Vehicle struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color,omitempty"`
	LicensePlate string    `json:"-"`
	Category     string    `json:"category"`
	Seats        int       `json:"seats"`
	Comfort      string    `json:"comfort"`
	Features     []string  `json:"features,omitempty"`
	Photos       []string  `json:"photos,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
