package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pirouette/internal/models"
	"pirouette/internal/repository"
)

type CourseStore struct {
	mu      sync.Mutex
	courses map[string]models.Course
	classes *ClassStore
}

// NewCourseStore wires the class store so deletion can refuse to orphan
// classes, mirroring the pgx repository.
func NewCourseStore(classes *ClassStore) *CourseStore {
	return &CourseStore{courses: make(map[string]models.Course), classes: classes}
}

func (s *CourseStore) Create(_ context.Context, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.courses {
		if existing.Title == course.Title {
			return repository.ErrDuplicateTitle
		}
	}

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	s.courses[course.ID] = course
	return nil
}

func (s *CourseStore) GetByID(_ context.Context, id string) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, repository.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseStore) List(_ context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].Title < courses[j].Title
	})
	return courses, nil
}

func (s *CourseStore) Update(_ context.Context, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.courses[course.ID]
	if !ok {
		return repository.ErrCourseNotFound
	}
	for id, existing := range s.courses {
		if id != course.ID && existing.Title == course.Title {
			return repository.ErrDuplicateTitle
		}
	}

	current.Title = course.Title
	current.Description = course.Description
	current.Level = course.Level
	current.UpdatedAt = time.Now()
	s.courses[course.ID] = current
	return nil
}

func (s *CourseStore) SetImageKey(_ context.Context, id string, imageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return repository.ErrCourseNotFound
	}
	course.ImageKey = &imageKey
	course.UpdatedAt = time.Now()
	s.courses[id] = course
	return nil
}

func (s *CourseStore) Delete(ctx context.Context, id string) (bool, error) {
	if s.classes != nil {
		classes, err := s.classes.ListByCourse(ctx, id)
		if err != nil {
			return false, err
		}
		if len(classes) > 0 {
			return false, repository.ErrCourseHasClasses
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return false, nil
	}
	delete(s.courses, id)
	return true, nil
}

type ClassStore struct {
	mu      sync.Mutex
	classes map[string]models.Class
}

func NewClassStore() *ClassStore {
	return &ClassStore{classes: make(map[string]models.Class)}
}

func (s *ClassStore) Create(_ context.Context, class models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	class.CreatedAt = now
	class.UpdatedAt = now
	s.classes[class.ID] = class
	return nil
}

func (s *ClassStore) GetByID(_ context.Context, id string) (models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	class, ok := s.classes[id]
	if !ok {
		return models.Class{}, repository.ErrClassNotFound
	}
	return class, nil
}

func (s *ClassStore) List(_ context.Context) ([]models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortClasses(s.snapshot(func(models.Class) bool { return true })), nil
}

func (s *ClassStore) ListByCourse(_ context.Context, courseID string) ([]models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortClasses(s.snapshot(func(c models.Class) bool { return c.CourseID == courseID })), nil
}

func (s *ClassStore) ListUpcoming(_ context.Context, limit int) ([]models.Class, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.mu.Lock()
	defer s.mu.Unlock()

	classes := sortClasses(s.snapshot(func(c models.Class) bool {
		return !c.Date.Before(startOfDay)
	}))
	if limit > 0 && len(classes) > limit {
		classes = classes[:limit]
	}
	return classes, nil
}

func (s *ClassStore) Update(_ context.Context, class models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.classes[class.ID]
	if !ok {
		return repository.ErrClassNotFound
	}

	class.CreatedAt = current.CreatedAt
	class.UpdatedAt = time.Now()
	s.classes[class.ID] = class
	return nil
}

func (s *ClassStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[id]; !ok {
		return false, nil
	}
	delete(s.classes, id)
	return true, nil
}

func (s *ClassStore) snapshot(keep func(models.Class) bool) []models.Class {
	var classes []models.Class
	for _, class := range s.classes {
		if keep(class) {
			classes = append(classes, class)
		}
	}
	return classes
}

func sortClasses(classes []models.Class) []models.Class {
	sort.Slice(classes, func(i, j int) bool {
		if !classes[i].Date.Equal(classes[j].Date) {
			return classes[i].Date.Before(classes[j].Date)
		}
		return classes[i].StartTime < classes[j].StartTime
	})
	return classes
}
