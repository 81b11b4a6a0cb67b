package domain

import "time"

// Estados de publicacion.
const (
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
	ListingStatusUnlisted  = "unlisted"
	ListingStatusSuspended = "suspended"
)

type ListingCapacity struct {
	Guests    int `json:"guests"`
	Bedrooms  int `json:"bedrooms"`
	Beds      int `json:"beds"`
	Bathrooms int `json:"bathrooms"`
}

type ListingPricing struct {
	BasePrice      float64 `json:"basePrice"`
	CleaningFee    float64 `json:"cleaningFee"`
	Currency       string  `json:"currency"`
	WeeklyDiscount float64 `json:"weeklyDiscount,omitempty"`
}

type Listing struct {
	ID                 string          `json:"id"`
	HostID             string          `json:"hostId"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	PropertyType       string          `json:"propertyType"`
	RoomType           string          `json:"roomType"`
	Location           GeoPoint        `json:"location"`
	Capacity           ListingCapacity `json:"capacity"`
	Amenities          []string        `json:"amenities,omitempty"`
	Photos             []string        `json:"photos,omitempty"`
	Pricing            ListingPricing  `json:"pricing"`
	HouseRules         []string        `json:"houseRules,omitempty"`
	CancellationPolicy string          `json:"cancellationPolicy"`
	InstantBooking     bool            `json:"instantBooking"`
	Status             string          `json:"status"`
	IsVerified         bool            `json:"isVerified"`
	Rating             float64         `json:"rating"`
	ReviewCount        int             `json:"reviewCount"`
	Views              int             `json:"views"`
	Favorites          int             `json:"favorites"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
