package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pirouette/internal/models"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) Create(ctx context.Context, class models.Class) error {
	const query = `
		INSERT INTO classes (
			id, course_id, title, description, date, start_time, end_time,
			capacity, instructor, location, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		class.ID,
		class.CourseID,
		class.Title,
		class.Description,
		class.Date,
		class.StartTime,
		class.EndTime,
		class.Capacity,
		class.Instructor,
		class.Location,
	)
	return err
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (models.Class, error) {
	const query = classSelect + ` WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanClass(row)
}

func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	const query = classSelect + ` ORDER BY date, start_time`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClasses(rows)
}

func (r *ClassRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Class, error) {
	const query = classSelect + ` WHERE course_id = $1 ORDER BY date, start_time`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClasses(rows)
}

// ListUpcoming returns classes dated today or later, soonest first.
func (r *ClassRepository) ListUpcoming(ctx context.Context, limit int) ([]models.Class, error) {
	const query = classSelect + `
		WHERE date >= CURRENT_DATE
		ORDER BY date, start_time
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClasses(rows)
}

func (r *ClassRepository) Update(ctx context.Context, class models.Class) error {
	const query = `
		UPDATE classes
		SET course_id = $2, title = $3, description = $4, date = $5,
		    start_time = $6, end_time = $7, capacity = $8,
		    instructor = $9, location = $10, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		class.ID,
		class.CourseID,
		class.Title,
		class.Description,
		class.Date,
		class.StartTime,
		class.EndTime,
		class.Capacity,
		class.Instructor,
		class.Location,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClassNotFound
	}
	return nil
}

// Delete removes the class record. Bookings referencing it are left behind
// and filtered out at read time by the booking workflow.
func (r *ClassRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM classes WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

const classSelect = `
	SELECT id, course_id, title, description, date, start_time, end_time,
	       capacity, instructor, location, created_at, updated_at
	FROM classes`

func scanClass(row pgx.Row) (models.Class, error) {
	var class models.Class
	if err := row.Scan(
		&class.ID,
		&class.CourseID,
		&class.Title,
		&class.Description,
		&class.Date,
		&class.StartTime,
		&class.EndTime,
		&class.Capacity,
		&class.Instructor,
		&class.Location,
		&class.CreatedAt,
		&class.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}
	return class, nil
}

func collectClasses(rows pgx.Rows) ([]models.Class, error) {
	var classes []models.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}
