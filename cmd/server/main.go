package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"charavault/docs"
	"charavault/internal/auth"
	"charavault/internal/cache"
	"charavault/internal/config"
	"charavault/internal/db"
	"charavault/internal/handler"
	"charavault/internal/model"
	"charavault/internal/repository"
	"charavault/internal/router"
	"charavault/internal/service"
	"charavault/internal/storage"
)

// @title CharaVault API
// @version 1.0
// @description Character catalog service: registration, login, character creation with tagged metadata and image uploads, and catalog search.
// @host localhost:5001
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	// Swag uses this for the server URL in docs when set.
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Character{},
		&model.Tag{},
		&model.CharacterTag{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploadStore, err := storage.NewUploadStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	characterRepo := repository.NewCharacterRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	characterService := service.NewCharacterService(characterRepo, userRepo, tagRepo, uploadStore, cacheClient)
	catalogService := service.NewCatalogService(characterRepo, userRepo, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, catalogService)
	characterHandler := handler.NewCharacterHandler(characterService, catalogService)

	router.Register(e, cfg, authHandler, userHandler, characterHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
