package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dagi345/Tutorly/internal/config"
	"github.com/dagi345/Tutorly/internal/database"
	"github.com/dagi345/Tutorly/internal/middleware"
	"github.com/dagi345/Tutorly/internal/modules/admin"
	"github.com/dagi345/Tutorly/internal/modules/auth"
	"github.com/dagi345/Tutorly/internal/modules/booking"
	"github.com/dagi345/Tutorly/internal/modules/chat"
	"github.com/dagi345/Tutorly/internal/modules/lesson"
	"github.com/dagi345/Tutorly/internal/modules/review"
	"github.com/dagi345/Tutorly/internal/modules/search"
	"github.com/dagi345/Tutorly/internal/modules/tutorprofile"
	"github.com/dagi345/Tutorly/internal/modules/user"
	"github.com/dagi345/Tutorly/internal/modules/video"
	jwtsvc "github.com/dagi345/Tutorly/internal/pkg/jwt"
	"github.com/dagi345/Tutorly/internal/pkg/response"
	"github.com/dagi345/Tutorly/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewTutorProfileRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := chat.NewHub()

	userService := user.NewService(userRepo)
	profileService := tutorprofile.NewService(profileRepo, userRepo, reviewRepo, lessonRepo)
	bookingService := booking.NewService(db, userRepo, profileRepo, lessonRepo)
	lessonService := lesson.NewService(db, lessonRepo, userRepo)
	searchService := search.NewService(profileRepo, userRepo)
	reviewService := review.NewService(reviewRepo, lessonRepo, profileService)
	chatService := chat.NewService(messageRepo, hub)
	videoService := video.NewService(cfg.StreamSecret, cfg.VideoTokenTTL, lessonService)
	adminService := admin.NewService(userRepo, profileRepo, lessonRepo, reviewService)

	userHandler := user.NewHandler(userService)
	profileHandler := tutorprofile.NewHandler(profileService)
	bookingHandler := booking.NewHandler(bookingService)
	lessonHandler := lesson.NewHandler(lessonService)
	searchHandler := search.NewHandler(searchService)
	reviewHandler := review.NewHandler(reviewService)
	chatHandler := chat.NewHandler(chatService, hub, j)
	videoHandler := video.NewHandler(videoService)
	authHandler := auth.NewHandler(userService, j, cfg.WebhookSecret)
	adminHandler := admin.NewHandler(adminService)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		searchHandler.RegisterRoutes(v1)
		profileHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)

		// browsers cannot set headers on websocket upgrades, so the
		// endpoint authenticates via query token itself
		chatHandler.RegisterWSRoute(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			userHandler.RegisterRoutes(protected)
			profileHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			lessonHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
			videoHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
		{
			authHandler.RegisterInternalRoutes(internal)
			internal.POST("/sweep", func(c *gin.Context) {
				n, err := lessonService.CancelStale(c.Request.Context(), cfg.SweepGrace)
				if err != nil {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sweep failed")
					return
				}
				response.Success(c, http.StatusOK, gin.H{"cancelled": n})
			})
		}
	}

	go runSweeper(lessonService, cfg.SweepInterval, cfg.SweepGrace)

	log.Printf("api: listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// runSweeper cancels overdue booked lessons on a fixed interval. The sweep
// is idempotent, so overlap with the cron binary is harmless.
func runSweeper(lessons *lesson.Service, interval, grace time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := lessons.CancelStale(ctx, grace)
		cancel()
		if err != nil {
			log.Printf("sweep: run failed err=%v", err)
			continue
		}
		if n > 0 {
			log.Printf("sweep: cancelled=%d", n)
		}
	}
}
