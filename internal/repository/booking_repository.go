package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pirouette/internal/models"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create admits a booking atomically. The class row is locked for the span of
// the transaction, so the confirmed-count comparison and the insert form one
// unit: concurrent requests for the last seat serialize, and concurrent
// requests for the same (user, class) pair fall through to the unique index,
// which admits exactly one.
func (r *BookingRepository) Create(ctx context.Context, booking models.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`, booking.ClassID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrClassNotFound
		}
		return err
	}

	var confirmed int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND status = 'confirmed'`,
		booking.ClassID,
	).Scan(&confirmed)
	if err != nil {
		return err
	}
	if confirmed >= capacity {
		return ErrClassFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, user_id, class_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		booking.ID,
		booking.UserID,
		booking.ClassID,
		booking.Status,
		booking.Notes,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateBooking
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	const query = bookingSelect + ` WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanBooking(row)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	const query = bookingSelect + ` WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) ListByClass(ctx context.Context, classID string) ([]models.Booking, error) {
	const query = bookingSelect + ` WHERE class_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// HasUserBooked reports any booking for the pair regardless of status; the
// uniqueness constraint has the same scope.
func (r *BookingRepository) HasUserBooked(ctx context.Context, userID string, classID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM bookings WHERE user_id = $1 AND class_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, classID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookingRepository) CountConfirmed(ctx context.Context, classID string) (int, error) {
	const query = `SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND status = 'confirmed'`

	var count int
	if err := r.pool.QueryRow(ctx, query, classID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Cancel is a plain set-operation: cancelling an already-cancelled booking
// succeeds and leaves the status unchanged.
func (r *BookingRepository) Cancel(ctx context.Context, id string) error {
	const query = `UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Delete hard-removes a record. Administrative cleanup only; the normal
// workflow never deletes bookings.
func (r *BookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM bookings WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

const bookingSelect = `
	SELECT id, user_id, class_id, status, notes, created_at, updated_at
	FROM bookings`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var booking models.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ClassID,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	return booking, nil
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
