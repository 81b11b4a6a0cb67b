package domain

import "time"

// Tipos de reseña.
const (
	ReviewTypeTrip      = "trip"
	ReviewTypeListing   = "listing"
	ReviewTypeDriver    = "driver"
	ReviewTypePassenger = "passenger"
	ReviewTypeHost      = "host"
	ReviewTypeGuest     = "guest"
)

type ReviewResponse struct {
	Comment     string     `json:"comment"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

type Review struct {
	ID               string          `json:"id"`
	AuthorID         string          `json:"authorId"`
	RecipientID      string          `json:"recipientId"`
	ReviewType       string          `json:"reviewType"`
	RelatedTripID    string          `json:"relatedTripId,omitempty"`
	RelatedListingID string          `json:"relatedListingId,omitempty"`
	RelatedBookingID string          `json:"relatedBookingId,omitempty"`
	Rating           int             `json:"rating"`
	Comment          string          `json:"comment"`
	Photos           []string        `json:"photos,omitempty"`
	Response         *ReviewResponse `json:"response,omitempty"`
	IsVisible        bool            `json:"isVisible"`
	IsReported       bool            `json:"isReported"`
	HelpfulVotes     int             `json:"helpfulVotes"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
