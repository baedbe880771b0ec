package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bakery_backend/internal/database"
	"bakery_backend/internal/router"
	"bakery_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	utils.SetJWTSecret(utils.Getenv("JWT_SECRET", ""))
	utils.RegisterCustomValidators()

	// Load database configuration from environment variables
	dbCfg := database.Config{
		Host:     utils.Getenv("DB_HOST", "localhost"),
		Port:     utils.Getenv("DB_PORT", "5432"),
		User:     utils.Getenv("DB_USER", "bakery_user"),
		Password: utils.Getenv("DB_PASSWORD", "bakery_password"),
		DBName:   utils.Getenv("DB_NAME", "bakery_db"),
		SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	utils.LogInfo("Database connected", map[string]interface{}{"host": dbCfg.Host, "db": dbCfg.DBName})

	if schemaPath := utils.Getenv("DB_SCHEMA_PATH", ""); schemaPath != "" {
		if err := database.ApplySchema(db, schemaPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
		utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	uploadDir := utils.Getenv("UPLOAD_DIR", "./uploads")
	router.Setup(engine, db, uploadDir)

	port := utils.Getenv("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for an interrupt, then drain in-flight requests before closing
	// the connection pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	utils.LogInfo("Server stopped")
}
