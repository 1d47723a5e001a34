package models

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking links a user to a class. Cancellation is a status transition; the
// record survives so the (user, class) uniqueness constraint keeps its scope.
type Booking struct {
	ID        string
	UserID    string
	ClassID   string
	Status    BookingStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
