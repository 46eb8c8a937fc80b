package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gymclass/internal/config"
	"gymclass/internal/database"
	"gymclass/internal/middleware"
	"gymclass/internal/modules/account"
	"gymclass/internal/modules/auth"
	"gymclass/internal/modules/booking"
	"gymclass/internal/modules/classes"
	"gymclass/internal/modules/notification"
	"gymclass/internal/modules/waitlist"
	jwtsvc "gymclass/internal/pkg/jwt"
	"gymclass/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "gym.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	notificationRepo := notification.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService)
	streamHandler := notification.NewStreamHandler(hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	accountService := account.NewService(userRepo, notificationService, cfg.NoShowThreshold, cfg.NoShowBlockFor)

	txManager := repository.NewTxManager(db)
	classService := classes.NewService(classRepo, reservationRepo, waitlistRepo, notificationService, txManager, cfg.DefaultClassCapacity)
	classHandler := classes.NewHandler(classService)

	bookingService := booking.NewService(reservationRepo, classRepo, accountService, notificationService, cfg.CancelLeadTime)
	bookingHandler := booking.NewHandler(bookingService)

	waitlistService := waitlist.NewService(waitlistRepo, classRepo, reservationRepo, bookingService, accountService, notificationService)
	waitlistHandler := waitlist.NewHandler(waitlistService)

	// Cancellations free a seat for the queue; wired late because the
	// waitlist books through the booking service.
	bookingService.SetPromoter(waitlistService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/ws/notifications", streamHandler.HandleStream)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		classHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			waitlistHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			staff := protected.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				classHandler.RegisterStaffRoutes(staff)
				bookingHandler.RegisterStaffRoutes(staff)
				waitlistHandler.RegisterStaffRoutes(staff)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
