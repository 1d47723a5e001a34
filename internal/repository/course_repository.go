package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pirouette/internal/models"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func (r *CourseRepository) Create(ctx context.Context, course models.Course) error {
	const query = `
		INSERT INTO courses (
			id, title, description, level, image_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Level,
		course.ImageKey,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTitle
	}
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	const query = `
		SELECT id, title, description, level, image_key, created_at, updated_at
		FROM courses WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	return scanCourse(row)
}

func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `
		SELECT id, title, description, level, image_key, created_at, updated_at
		FROM courses ORDER BY title
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, course models.Course) error {
	const query = `
		UPDATE courses
		SET title = $2, description = $3, level = $4, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Level,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTitle
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) SetImageKey(ctx context.Context, id string, imageKey string) error {
	const query = `UPDATE courses SET image_key = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, imageKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Delete removes a course only when no classes reference it. Orphaning whole
// class schedules silently is not tolerated, unlike orphaned bookings.
func (r *CourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var classCount int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM classes WHERE course_id = $1`, id,
	).Scan(&classCount); err != nil {
		return false, err
	}
	if classCount > 0 {
		return false, ErrCourseHasClasses
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanCourse(row pgx.Row) (models.Course, error) {
	var course models.Course
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Level,
		&course.ImageKey,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}
