package domain

import "time"

// Estados de conexion entre usuarios.
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusDeclined = "declined"
	ConnectionStatusBlocked  = "blocked"
)

type Connection struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requesterId"`
	RecipientID string     `json:"recipientId"`
	Status      string     `json:"status"`
	Message     string     `json:"message,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
