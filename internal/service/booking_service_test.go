package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pirouette/internal/ids"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/repository/memory"
	"pirouette/internal/service"
)

type bookingFixture struct {
	users    *memory.UserStore
	courses  *memory.CourseStore
	classes  *memory.ClassStore
	bookings *memory.BookingStore
	svc      *service.BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	classes := memory.NewClassStore()
	f := &bookingFixture{
		users:    memory.NewUserStore(),
		courses:  memory.NewCourseStore(classes),
		classes:  classes,
		bookings: memory.NewBookingStore(classes),
	}
	f.svc = service.NewBookingService(f.bookings, f.classes, f.courses, nil, zerolog.Nop())
	return f
}

func (f *bookingFixture) addUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{ID: ids.New(), Name: name, Email: name + "@example.com", Role: models.UserRoleUser}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func (f *bookingFixture) addClass(t *testing.T, capacity int) models.Class {
	t.Helper()
	ctx := context.Background()

	course := models.Course{ID: ids.New(), Title: "Course " + ids.New(), Level: models.CourseLevelBeginner}
	if err := f.courses.Create(ctx, course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	class := models.Class{
		ID:        ids.New(),
		CourseID:  course.ID,
		Title:     "Session",
		Date:      time.Now().AddDate(0, 0, 1),
		StartTime: "18:00",
		EndTime:   "19:30",
		Capacity:  capacity,
	}
	if err := f.classes.Create(ctx, class); err != nil {
		t.Fatalf("create class: %v", err)
	}
	return class
}

func TestRequestBooking_Succeeds(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	class := f.addClass(t, 5)

	booking, err := f.svc.RequestBooking(ctx, user.ID, class.ID)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %q", booking.Status)
	}

	booked, err := f.bookings.HasUserBooked(ctx, user.ID, class.ID)
	if err != nil {
		t.Fatalf("has booked: %v", err)
	}
	if !booked {
		t.Fatal("expected HasUserBooked to be true after booking")
	}
}

func TestRequestBooking_MissingClass(t *testing.T) {
	f := newBookingFixture(t)
	user := f.addUser(t, "ada")

	_, err := f.svc.RequestBooking(context.Background(), user.ID, "absent")
	if !errors.Is(err, repository.ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestRequestBooking_Duplicate(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	class := f.addClass(t, 5)

	if _, err := f.svc.RequestBooking(ctx, user.ID, class.ID); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := f.svc.RequestBooking(ctx, user.ID, class.ID); !errors.Is(err, repository.ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}

	count, err := f.bookings.CountConfirmed(ctx, class.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("ledger count changed by failed duplicate: %d", count)
	}
}

// A user who cancelled keeps their record, so rebooking the same class is
// rejected. Preserved source behavior.
func TestRequestBooking_AfterCancelStillDuplicate(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	class := f.addClass(t, 5)

	booking, err := f.svc.RequestBooking(ctx, user.ID, class.ID)
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	if err := f.svc.RequestCancellation(ctx, booking.ID, user.ID, user.Role); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := f.svc.RequestBooking(ctx, user.ID, class.ID); !errors.Is(err, repository.ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking after cancel, got %v", err)
	}
}

func TestRequestBooking_ClassFull(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	class := f.addClass(t, 3)

	for i := 0; i < 3; i++ {
		user := f.addUser(t, "user"+string(rune('a'+i)))
		if _, err := f.svc.RequestBooking(ctx, user.ID, class.ID); err != nil {
			t.Fatalf("booking %d: %v", i+1, err)
		}
	}

	overflow := f.addUser(t, "overflow")
	if _, err := f.svc.RequestBooking(ctx, overflow.ID, class.ID); !errors.Is(err, repository.ErrClassFull) {
		t.Fatalf("expected ErrClassFull, got %v", err)
	}
}

// Ada books the single seat; Bob is turned away.
func TestRequestBooking_LastSeatScenario(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	ada := f.addUser(t, "ada")
	bob := f.addUser(t, "bob")
	class := f.addClass(t, 1)

	if _, err := f.svc.RequestBooking(ctx, ada.ID, class.ID); err != nil {
		t.Fatalf("ada's booking: %v", err)
	}
	if _, err := f.svc.RequestBooking(ctx, bob.ID, class.ID); !errors.Is(err, repository.ErrClassFull) {
		t.Fatalf("expected ErrClassFull for bob, got %v", err)
	}
}

func TestRequestBooking_ConcurrentSamePair(t *testing.T) {
	const attempts = 32

	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	class := f.addClass(t, attempts+1)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RequestBooking(ctx, user.ID, class.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, duplicates int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrDuplicateBooking):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", succeeded)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicate losses, got %d", attempts-1, duplicates)
	}

	count, err := f.bookings.CountConfirmed(ctx, class.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 confirmed booking, got %d", count)
	}
}

func TestRequestBooking_ConcurrentLastSeat(t *testing.T) {
	const contenders = 16

	f := newBookingFixture(t)
	ctx := context.Background()
	class := f.addClass(t, 1)

	users := make([]models.User, contenders)
	for i := range users {
		users[i] = f.addUser(t, "user"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for _, user := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := f.svc.RequestBooking(ctx, userID, class.ID)
			results <- err
		}(user.ID)
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, repository.ErrClassFull) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected the single seat to admit exactly 1, got %d", succeeded)
	}
}

func TestRequestCancellation_Ownership(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	owner := f.addUser(t, "ada")
	stranger := f.addUser(t, "bob")
	class := f.addClass(t, 5)

	booking, err := f.svc.RequestBooking(ctx, owner.ID, class.ID)
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	if err := f.svc.RequestCancellation(ctx, booking.ID, stranger.ID, models.UserRoleUser); !errors.Is(err, service.ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}

	// Admins may cancel anyone's booking.
	if err := f.svc.RequestCancellation(ctx, booking.ID, stranger.ID, models.UserRoleAdmin); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}

	got, err := f.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %q", got.Status)
	}
}

func TestRequestCancellation_MissingBooking(t *testing.T) {
	f := newBookingFixture(t)
	err := f.svc.RequestCancellation(context.Background(), "absent", "u", models.UserRoleUser)
	if !errors.Is(err, repository.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestUserSchedule_FiltersOrphans(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	kept := f.addClass(t, 5)
	doomed := f.addClass(t, 5)

	if _, err := f.svc.RequestBooking(ctx, user.ID, kept.ID); err != nil {
		t.Fatalf("booking kept: %v", err)
	}
	if _, err := f.svc.RequestBooking(ctx, user.ID, doomed.ID); err != nil {
		t.Fatalf("booking doomed: %v", err)
	}

	if _, err := f.classes.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete class: %v", err)
	}

	schedule, err := f.svc.UserSchedule(ctx, user.ID)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(schedule) != 1 {
		t.Fatalf("expected orphaned booking filtered, got %d entries", len(schedule))
	}
	if schedule[0].Class.ID != kept.ID {
		t.Fatalf("wrong class on schedule: %q", schedule[0].Class.ID)
	}
}

func TestConfirmedSeats_NoCache(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "ada")
	class := f.addClass(t, 5)

	if _, err := f.svc.RequestBooking(ctx, user.ID, class.ID); err != nil {
		t.Fatalf("booking: %v", err)
	}

	seats, err := f.svc.ConfirmedSeats(ctx, class.ID)
	if err != nil {
		t.Fatalf("seats: %v", err)
	}
	if seats != 1 {
		t.Fatalf("expected 1 confirmed seat, got %d", seats)
	}
}
