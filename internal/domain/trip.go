package domain

import "time"

// Estados de viaje.
const (
	TripStatusDraft      = "draft"
	TripStatusPublished  = "published"
	TripStatusInProgress = "in-progress"
	TripStatusCompleted  = "completed"
	TripStatusCancelled  = "cancelled"
)

type TripPassenger struct {
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	SeatsBooked   int       `json:"seatsBooked"`
	PickupPoint   *GeoPoint `json:"pickupPoint,omitempty"`
	DropoffPoint  *GeoPoint `json:"dropoffPoint,omitempty"`
	PricePaid     float64   `json:"pricePaid"`
	BookedAt      time.Time `json:"bookedAt"`
}

type Trip struct {
	ID                string          `json:"id"`
	DriverID          string          `json:"driverId"`
	VehicleID         string          `json:"vehicleId,omitempty"`
	Origin            GeoPoint        `json:"origin"`
	Destination       GeoPoint        `json:"destination"`
	Waypoints         []GeoPoint      `json:"waypoints,omitempty"`
	DepartureDate     time.Time       `json:"departureDate"`
	DepartureTime     string          `json:"departureTime"`
	ArrivalDate       *time.Time      `json:"arrivalDate,omitempty"`
	ArrivalTime       string          `json:"arrivalTime,omitempty"`
	EstimatedDuration int             `json:"estimatedDuration,omitempty"`
	Distance          float64         `json:"distance,omitempty"`
	AvailableSeats    int             `json:"availableSeats"`
	TotalSeats        int             `json:"totalSeats"`
	PricePerSeat      float64         `json:"pricePerSeat"`
	Currency          string          `json:"currency"`
	Passengers        []TripPassenger `json:"passengers,omitempty"`
	Preferences       Preferences     `json:"preferences"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
