package service

import (
	"context"

	"pirouette/internal/models"
	"pirouette/internal/repository"
)

// Store interfaces are satisfied by both the pgx repositories and the
// in-memory stores; services never care which backend is wired.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, params repository.UpdateUserParams) (models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
}

type CourseStore interface {
	Create(ctx context.Context, course models.Course) error
	GetByID(ctx context.Context, id string) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, course models.Course) error
	SetImageKey(ctx context.Context, id string, imageKey string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ClassStore interface {
	Create(ctx context.Context, class models.Class) error
	GetByID(ctx context.Context, id string) (models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Class, error)
	ListUpcoming(ctx context.Context, limit int) ([]models.Class, error)
	Update(ctx context.Context, class models.Class) error
	Delete(ctx context.Context, id string) (bool, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking models.Booking) error
	GetByID(ctx context.Context, id string) (models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByClass(ctx context.Context, classID string) ([]models.Booking, error)
	HasUserBooked(ctx context.Context, userID string, classID string) (bool, error)
	CountConfirmed(ctx context.Context, classID string) (int, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
}
