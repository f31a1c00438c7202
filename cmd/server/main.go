package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/study-notes/backend/internal/api"
	"github.com/study-notes/backend/internal/catalog"
	"github.com/study-notes/backend/internal/config"
	"github.com/study-notes/backend/internal/normalize"
	"github.com/study-notes/backend/internal/notes"
	"github.com/study-notes/backend/internal/storage"
	"github.com/study-notes/backend/internal/subject"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load YAML configuration
	configPath := filepath.Join(exeDir, "study-notes.yaml")
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// The subject registry is built once and shared read-only
	registry := subject.Default()

	// Initialize file storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize note catalog
	noteCatalog, err := catalog.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to initialize catalog: %v\n", err)
		os.Exit(1)
	}
	defer noteCatalog.Close()

	// Initialize image normalizer
	normalizer := &normalize.Normalizer{
		MaxDimension: cfg.Image.MaxDimension,
		JPEGQuality:  cfg.Image.JPEGQuality,
	}

	// Wire the note service
	allocator := storage.NewAllocator(registry)
	service := notes.NewService(registry, allocator, normalizer, fileStore, noteCatalog)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	// Upload size cap, enforced before any handler work
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// Register routes
	handlers := api.NewHandlers(&api.Dependencies{
		Service:  service,
		Registry: registry,
		Version:  Version,
	})
	api.RegisterRoutes(e, handlers)

	// Configure server with settings from config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("Study Notes server %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:   %s\n", configPath)
	fmt.Printf("  Listen:   http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Uploads:  %s\n", cfg.GetUploadDir())
	fmt.Printf("  Catalog:  %s\n", noteCatalog.Path())

	e.Logger.Fatal(e.StartServer(s))
}
