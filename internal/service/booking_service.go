package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pirouette/internal/ids"
	"pirouette/internal/models"
	"pirouette/internal/repository"
)

var ErrNotBookingOwner = errors.New("booking belongs to another user")

const (
	seatCountKeyPrefix = "class:seats:"
	seatCountTTL       = 10 * time.Minute
)

// BookingService is the booking workflow: it decides whether a user may book
// a class now, and performs cancellation on behalf of owners and admins.
type BookingService struct {
	bookings BookingStore
	classes  ClassStore
	courses  CourseStore
	cache    *redis.Client
	log      zerolog.Logger
}

func NewBookingService(bookings BookingStore, classes ClassStore, courses CourseStore, cache *redis.Client, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		classes:  classes,
		courses:  courses,
		cache:    cache,
		log:      log,
	}
}

// RequestBooking runs the admission rule. The pre-checks here give friendly
// error ordering; the store's Create is the authoritative atomic gate, so a
// race lost between check and insert still comes back as the right sentinel.
func (s *BookingService) RequestBooking(ctx context.Context, userID string, classID string) (models.Booking, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return models.Booking{}, err
	}

	booked, err := s.bookings.HasUserBooked(ctx, userID, classID)
	if err != nil {
		return models.Booking{}, err
	}
	if booked {
		return models.Booking{}, repository.ErrDuplicateBooking
	}

	confirmed, err := s.bookings.CountConfirmed(ctx, classID)
	if err != nil {
		return models.Booking{}, err
	}
	if confirmed >= class.Capacity {
		return models.Booking{}, repository.ErrClassFull
	}

	booking := models.Booking{
		ID:      ids.New(),
		UserID:  userID,
		ClassID: classID,
		Status:  models.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return models.Booking{}, err
	}

	s.invalidateSeatCount(ctx, classID)
	return booking, nil
}

func (s *BookingService) RequestCancellation(ctx context.Context, bookingID string, requesterID string, requesterRole models.UserRole) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != requesterID && requesterRole != models.UserRoleAdmin {
		return ErrNotBookingOwner
	}

	if err := s.bookings.Cancel(ctx, bookingID); err != nil {
		return err
	}

	s.invalidateSeatCount(ctx, booking.ClassID)
	return nil
}

// BookingDetail is a dashboard row: the booking with its class and course
// resolved at read time.
type BookingDetail struct {
	Booking models.Booking
	Class   models.ClassDisplay
	Course  models.Course
}

// UserSchedule lists the user's bookings with class and course attached.
// Bookings whose class or course was deleted are filtered out here rather
// than cleaned up in the store.
func (s *BookingService) UserSchedule(ctx context.Context, userID string) ([]BookingDetail, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var details []BookingDetail
	for _, booking := range bookings {
		class, err := s.classes.GetByID(ctx, booking.ClassID)
		if err != nil {
			if errors.Is(err, repository.ErrClassNotFound) {
				continue
			}
			return nil, err
		}
		course, err := s.courses.GetByID(ctx, class.CourseID)
		if err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}
		details = append(details, BookingDetail{
			Booking: booking,
			Class:   class.Display(),
			Course:  course,
		})
	}
	return details, nil
}

// ConfirmedSeats returns the confirmed booking count for a class, through a
// short-lived cache when one is wired.
func (s *BookingService) ConfirmedSeats(ctx context.Context, classID string) (int, error) {
	if s.cache != nil {
		if n, err := s.cache.Get(ctx, seatCountKeyPrefix+classID).Int(); err == nil {
			return n, nil
		}
	}

	count, err := s.bookings.CountConfirmed(ctx, classID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, seatCountKeyPrefix+classID, count, seatCountTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("class_id", classID).Msg("seat count cache write failed")
		}
	}
	return count, nil
}

// RefreshSeatCounts recounts confirmed bookings for upcoming classes and
// rewrites the cache entries. Run from the scheduler to repair drift left by
// best-effort invalidation.
func (s *BookingService) RefreshSeatCounts(ctx context.Context, limit int) error {
	if s.cache == nil {
		return nil
	}

	classes, err := s.classes.ListUpcoming(ctx, limit)
	if err != nil {
		return fmt.Errorf("list upcoming: %w", err)
	}

	for _, class := range classes {
		count, err := s.bookings.CountConfirmed(ctx, class.ID)
		if err != nil {
			return fmt.Errorf("count class %s: %w", class.ID, err)
		}
		if err := s.cache.Set(ctx, seatCountKeyPrefix+class.ID, count, seatCountTTL).Err(); err != nil {
			return fmt.Errorf("cache class %s: %w", class.ID, err)
		}
	}
	return nil
}

func (s *BookingService) invalidateSeatCount(ctx context.Context, classID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, seatCountKeyPrefix+classID).Err(); err != nil {
		s.log.Warn().Err(err).Str("class_id", classID).Msg("seat count invalidation failed")
	}
}
