package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pirouette/internal/models"
	"pirouette/internal/repository"
)

type BookingStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	classes  *ClassStore
}

// NewBookingStore needs the class store to read capacity inside the same
// admission critical section the pgx repository gets from its transaction.
func NewBookingStore(classes *ClassStore) *BookingStore {
	return &BookingStore{bookings: make(map[string]models.Booking), classes: classes}
}

// Create performs the duplicate check, the capacity check, and the insert
// under one lock. Exactly one of N concurrent calls for the same
// (user, class) pair wins; the rest get ErrDuplicateBooking.
func (s *BookingStore) Create(ctx context.Context, booking models.Booking) error {
	class, err := s.classes.GetByID(ctx, booking.ClassID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed := 0
	for _, existing := range s.bookings {
		if existing.UserID == booking.UserID && existing.ClassID == booking.ClassID {
			return repository.ErrDuplicateBooking
		}
		if existing.ClassID == booking.ClassID && existing.Status == models.BookingStatusConfirmed {
			confirmed++
		}
	}
	if confirmed >= class.Capacity {
		return repository.ErrClassFull
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	s.bookings[booking.ID] = booking
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, repository.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingStore) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bookings []models.Booking
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *BookingStore) ListByClass(_ context.Context, classID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bookings []models.Booking
	for _, booking := range s.bookings {
		if booking.ClassID == classID {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *BookingStore) HasUserBooked(_ context.Context, userID string, classID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, booking := range s.bookings {
		if booking.UserID == userID && booking.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingStore) CountConfirmed(_ context.Context, classID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, booking := range s.bookings {
		if booking.ClassID == classID && booking.Status == models.BookingStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (s *BookingStore) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	booking.Status = models.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	s.bookings[id] = booking
	return nil
}

func (s *BookingStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return false, nil
	}
	delete(s.bookings, id)
	return true, nil
}
