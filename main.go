// main.go - Entry point and server lifecycle
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/skeates/trmnl-running-dashboard/internal/config"
	"github.com/skeates/trmnl-running-dashboard/internal/web"
)

type App struct {
	server   *http.Server
	shutdown chan os.Signal
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	app := &App{
		shutdown: make(chan os.Signal, 1),
	}
	app.init()
	app.start()

	// Wait for shutdown signal
	signal.Notify(app.shutdown, os.Interrupt, syscall.SIGTERM)
	<-app.shutdown

	app.stop()
}

func (app *App) init() {
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(web.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigin)))

	web.NewHandler().RegisterRoutes(router)

	app.server = &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func (app *App) start() {
	go func() {
		log.Printf("Server starting on http://localhost%s", app.server.Addr)
		if err := app.server.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()
}

func (app *App) stop() {
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// corsConfig builds the permissive-by-default CORS policy the e-ink
// device and any browser dashboard need. Origin is configurable via
// CORS_ALLOWED_ORIGIN.
func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET"}
	cfg.AllowHeaders = []string{"Content-Type"}
	if origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	return cfg
}
