package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pirouette/internal/config"
	"pirouette/internal/middleware"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/service"
	"pirouette/internal/storage"
)

// Stores bundles the four entity stores so the handler set can be built over
// either backend.
type Stores struct {
	Users    service.UserStore
	Courses  service.CourseStore
	Classes  service.ClassStore
	Bookings service.BookingStore
}

func NewPostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:    repository.NewUserRepository(pool),
		Courses:  repository.NewCourseRepository(pool),
		Classes:  repository.NewClassRepository(pool),
		Bookings: repository.NewBookingRepository(pool),
	}
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	stores   Stores
	auth     *service.AuthService
	bookings *service.BookingService
	catalog  *service.CatalogService
	db       *pgxpool.Pool
	cache    *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	stores Stores,
	db *pgxpool.Pool,
	cache *redis.Client,
	objectStore *storage.ObjectStore,
) HandlerSet {
	// A nil *ObjectStore must stay nil inside the interface-typed parameter.
	var images service.ImageStore
	if objectStore != nil {
		images = objectStore
	}

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		stores:   stores,
		auth:     service.NewAuthService(stores.Users, cache, cfg, log),
		bookings: service.NewBookingService(stores.Bookings, stores.Classes, stores.Courses, cache, log),
		catalog:  service.NewCatalogService(stores.Courses, stores.Classes, images, log),
		db:       db,
		cache:    cache,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	soft := middleware.AttachUser(h.cfg, h.stores.Users, h.auth)
	hard := middleware.RequireAuth(h.cfg, h.stores.Users, h.auth)

	auth := router.Group("/auth")
	auth.Use(soft)
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.GET("/logout", h.Logout)

	courses := router.Group("/courses")
	courses.GET("", h.ListCourses)
	courses.GET("/:id", h.CourseDetail)
	courses.GET("/class/:id", soft, h.ClassDetail)

	router.GET("/classes", h.UpcomingClasses)

	bookings := router.Group("/bookings")
	bookings.Use(hard)
	bookings.POST("", h.CreateBooking)
	bookings.GET("/cancel/:id", h.CancelBooking)

	router.GET("/dashboard", hard, h.Dashboard)

	admin := router.Group("/admin")
	admin.Use(hard, middleware.RequireRoles(models.UserRoleAdmin))
	admin.GET("", h.AdminDashboard)

	admin.POST("/courses", h.AdminCreateCourse)
	admin.PUT("/courses/:id", h.AdminUpdateCourse)
	admin.DELETE("/courses/:id", h.AdminDeleteCourse)
	admin.POST("/courses/:id/image", h.AdminUploadCourseImage)

	admin.POST("/classes", h.AdminCreateClass)
	admin.PUT("/classes/:id", h.AdminUpdateClass)
	admin.DELETE("/classes/:id", h.AdminDeleteClass)
	admin.GET("/classes/:id/roster", h.AdminClassRoster)

	admin.GET("/users", h.AdminListUsers)
	admin.POST("/users", h.AdminCreateUser)
	admin.PUT("/users/:id", h.AdminUpdateUser)
	admin.POST("/users/:id/role", h.AdminToggleRole)
	admin.DELETE("/users/:id", h.AdminDeleteUser)

	admin.DELETE("/bookings/:id", h.AdminDeleteBooking)
}

// respondError translates domain sentinels into HTTP statuses. Anything
// unrecognized is a store failure: logged with detail, reported generically.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrClassNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrClassFull),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCourseHasClasses):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("store failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
