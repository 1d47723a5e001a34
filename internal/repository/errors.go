package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by the pgx stores and the in-memory stores so that
// callers can branch without knowing which backend is wired.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrCourseNotFound   = errors.New("course not found")
	ErrDuplicateTitle   = errors.New("course title already exists")
	ErrCourseHasClasses = errors.New("course still has classes")
	ErrClassNotFound    = errors.New("class not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateBooking = errors.New("class already booked by user")
	ErrClassFull        = errors.New("class is fully booked")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
