package domain

import "time"

// Estados de reserva.
const (
	BookingStatusPending          = "pending"
	BookingStatusConfirmed        = "confirmed"
	BookingStatusCancelledByGuest = "cancelled-by-guest"
	BookingStatusCancelledByHost  = "cancelled-by-host"
	BookingStatusDeclined         = "declined"
	BookingStatusCompleted        = "completed"
)

type BookingPricing struct {
	BasePrice    float64 `json:"basePrice"`
	CleaningFee  float64 `json:"cleaningFee"`
	ServiceFee   float64 `json:"serviceFee"`
	TotalPrice   float64 `json:"totalPrice"`
	Currency     string  `json:"currency"`
}

type BookingPayment struct {
	Status        string     `json:"status"`
	TransactionID string     `json:"-"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type Booking struct {
	ID                 string         `json:"id"`
	GuestID            string         `json:"guestId"`
	HostID             string         `json:"hostId"`
	ListingID          string         `json:"listingId"`
	CheckInDate        time.Time      `json:"checkInDate"`
	CheckOutDate       time.Time      `json:"checkOutDate"`
	Guests             int            `json:"guests"`
	NumberOfNights     int            `json:"numberOfNights"`
	Pricing            BookingPricing `json:"pricing"`
	Payment            BookingPayment `json:"payment"`
	Status             string         `json:"status"`
	SpecialRequests    string         `json:"specialRequests,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
	CancelledBy        string         `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	ConfirmedAt        *time.Time     `json:"confirmedAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}
