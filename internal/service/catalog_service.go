package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"

	"pirouette/internal/ids"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/storage"
)

var ErrStorageDisabled = errors.New("object storage not configured")

// ImageStore is the slice of the object store the catalog needs. Satisfied
// by *storage.ObjectStore.
type ImageStore interface {
	PutImage(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	RemoveImage(ctx context.Context, key string) error
}

var _ ImageStore = (*storage.ObjectStore)(nil)

// CatalogService composes course and class reads for the public pages and
// handles the admin-side course image upload.
type CatalogService struct {
	courses CourseStore
	classes ClassStore
	store   ImageStore
	log     zerolog.Logger
}

func NewCatalogService(courses CourseStore, classes ClassStore, store ImageStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		courses: courses,
		classes: classes,
		store:   store,
		log:     log,
	}
}

type CourseDetail struct {
	Course  models.Course
	Classes []models.ClassDisplay
}

func (s *CatalogService) CourseWithClasses(ctx context.Context, courseID string) (CourseDetail, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return CourseDetail{}, err
	}

	classes, err := s.classes.ListByCourse(ctx, courseID)
	if err != nil {
		return CourseDetail{}, err
	}

	detail := CourseDetail{Course: course, Classes: make([]models.ClassDisplay, 0, len(classes))}
	for _, class := range classes {
		detail.Classes = append(detail.Classes, class.Display())
	}
	return detail, nil
}

type UpcomingClass struct {
	Class  models.ClassDisplay
	Course models.Course
}

// UpcomingClasses resolves the owning course per class; classes whose course
// was deleted are skipped the same way orphaned bookings are.
func (s *CatalogService) UpcomingClasses(ctx context.Context, limit int) ([]UpcomingClass, error) {
	classes, err := s.classes.ListUpcoming(ctx, limit)
	if err != nil {
		return nil, err
	}

	var upcoming []UpcomingClass
	for _, class := range classes {
		course, err := s.courses.GetByID(ctx, class.CourseID)
		if err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}
		upcoming = append(upcoming, UpcomingClass{Class: class.Display(), Course: course})
	}
	return upcoming, nil
}

// UploadCourseImage stores the image, records its key on the course, and
// removes the image it replaced.
func (s *CatalogService) UploadCourseImage(ctx context.Context, courseID string, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("courses/%s/%s%s", courseID, ids.New(), path.Ext(filename))
	if err := s.store.PutImage(ctx, key, reader, size, contentType); err != nil {
		return "", err
	}

	if err := s.courses.SetImageKey(ctx, courseID, key); err != nil {
		return "", err
	}

	if course.ImageKey != nil && *course.ImageKey != key {
		s.removeImage(ctx, *course.ImageKey)
	}
	return key, nil
}

// DeleteCourse removes the course and, when it carried an image, the image
// object too. Refuses while classes still reference the course.
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID string) (bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := s.courses.Delete(ctx, courseID)
	if err != nil || !removed {
		return removed, err
	}

	if course.ImageKey != nil {
		s.removeImage(ctx, *course.ImageKey)
	}
	return true, nil
}

// removeImage is best effort: an orphaned object is not worth failing the
// request that already committed.
func (s *CatalogService) removeImage(ctx context.Context, key string) {
	if s.store == nil {
		return
	}
	if err := s.store.RemoveImage(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("image removal failed")
	}
}
