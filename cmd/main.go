package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/config"
	"github.com/CioFlingar/Library-Management-API/internal/handlers"
	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
	"github.com/CioFlingar/Library-Management-API/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logg.Fatal("failed to connect database", "err", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logg.Fatal("failed to get generic DB", "err", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Category{},
		&models.Book{},
		&models.Borrow{},
	); err != nil {
		logg.Fatal("failed to migrate schema", "err", err)
	}

	userRepo := repositories.NewUserRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	borrowRepo := repositories.NewBorrowRepository(db)

	authSvc := services.NewAuthService(db, logg, userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userSvc := services.NewUserService(db, logg, userRepo)
	catalogSvc := services.NewCatalogService(db, logg, authorRepo, categoryRepo, bookRepo)
	borrowSvc := services.NewBorrowService(db, logg, userRepo, bookRepo, borrowRepo)

	router := gin.Default()

	handlers.RegisterRoutes(router, logg, authSvc, userSvc, catalogSvc, borrowSvc)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logg.Info("Starting server", "addr", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal("server error", "err", err)
	}
}
