package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pirouette/internal/config"
	"pirouette/internal/database"
	"pirouette/internal/handlers"
	"pirouette/internal/ids"
	"pirouette/internal/log"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/security"
)

type seedUser struct {
	name     string
	email    string
	password string
	admin    bool
}

type seedCourse struct {
	title       string
	description string
	level       models.CourseLevel
}

var seedUsers = []seedUser{
	{"Admin User", "admin@example.com", "admin123", true},
	{"Regular User", "user@example.com", "user1234", false},
}

var seedCourses = []seedCourse{
	{
		"Ballet for Beginners",
		"Introduction to classical ballet techniques and positions. Perfect for those with no prior dance experience.",
		models.CourseLevelBeginner,
	},
	{
		"Intermediate Hip Hop",
		"Take your hip hop skills to the next level with more complex routines and techniques.",
		models.CourseLevelIntermediate,
	},
	{
		"Advanced Contemporary",
		"Advanced contemporary dance techniques focusing on expression and fluidity.",
		models.CourseLevelAdvanced,
	},
	{
		"Salsa for Everyone",
		"Learn the basics of salsa dancing in a fun and welcoming environment.",
		models.CourseLevelBeginner,
	},
}

func instructorFor(level models.CourseLevel) string {
	switch level {
	case models.CourseLevelBeginner:
		return "Sarah Johnson"
	case models.CourseLevelIntermediate:
		return "Michael Chen"
	default:
		return "Elena Rodriguez"
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.New(cfg.Environment)

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	stores := handlers.NewPostgresStores(pool)

	for _, u := range seedUsers {
		hash, err := security.HashPassword(u.password)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash password")
		}
		role := models.UserRoleUser
		if u.admin {
			role = models.UserRoleAdmin
		}
		err = stores.Users.Create(ctx, models.User{
			ID:           ids.New(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         role,
		})
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Info().Str("email", u.email).Msg("user exists, skipping")
			continue
		}
		if err != nil {
			logger.Fatal().Err(err).Str("email", u.email).Msg("seed user")
		}
		logger.Info().Str("email", u.email).Msg("user created")
	}

	for _, sc := range seedCourses {
		course := models.Course{
			ID:          ids.New(),
			Title:       sc.title,
			Description: sc.description,
			Level:       sc.level,
		}
		err := stores.Courses.Create(ctx, course)
		if errors.Is(err, repository.ErrDuplicateTitle) {
			logger.Info().Str("title", sc.title).Msg("course exists, skipping")
			continue
		}
		if err != nil {
			logger.Fatal().Err(err).Str("title", sc.title).Msg("seed course")
		}

		for i := 1; i <= 3; i++ {
			class := models.Class{
				ID:          ids.New(),
				CourseID:    course.ID,
				Title:       fmt.Sprintf("%s - Class %d", sc.title, i),
				Description: fmt.Sprintf("Session %d of the %s course.", i, sc.title),
				Date:        time.Now().AddDate(0, 0, i*2),
				StartTime:   "18:00",
				EndTime:     "19:30",
				Capacity:    models.DefaultClassCapacity,
				Instructor:  instructorFor(sc.level),
				Location:    fmt.Sprintf("Dance Studio %d", i+1),
			}
			if err := stores.Classes.Create(ctx, class); err != nil {
				logger.Fatal().Err(err).Str("class", class.Title).Msg("seed class")
			}
		}
		logger.Info().Str("title", sc.title).Msg("course created with 3 classes")
	}

	logger.Info().Msg("seeding complete")
}
