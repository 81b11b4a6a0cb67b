package domain

// UserCard es la proyeccion minima de un usuario para listados.
type UserCard struct {
	ID         string `json:"id"`
	Fullname   string `json:"fullname"`
	Nickname   string `json:"nickname"`
	ProfilePic string `json:"profilePic,omitempty"`
	TrustScore int    `json:"trustScore"`
}

// ListingCard es la proyeccion minima de una publicacion para listados.
type ListingCard struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	PropertyType string  `json:"propertyType"`
	City         string  `json:"city,omitempty"`
	Photo        string  `json:"photo,omitempty"`
	BasePrice    float64 `json:"basePrice"`
}

// ReviewDetail acompaña una reseña con la tarjeta del autor o destinatario.
type ReviewDetail struct {
	Review
	Author    *UserCard `json:"author,omitempty"`
	Recipient *UserCard `json:"recipient,omitempty"`
}

// BookingDetail acompaña una reserva con su publicacion y anfitrion.
type BookingDetail struct {
	Booking
	Listing *ListingCard `json:"listing,omitempty"`
	Host    *UserCard    `json:"host,omitempty"`
}

// ConnectionDetail acompaña una conexion con las tarjetas de ambos extremos.
type ConnectionDetail struct {
	Connection
	Requester *UserCard `json:"requester,omitempty"`
	Recipient *UserCard `json:"recipient,omitempty"`
}
