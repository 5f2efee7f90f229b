package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprite-index/core/loader"
	"sprite-index/core/logger"
	"sprite-index/core/middleware/auth"
	"sprite-index/core/middleware/rayid"
	"sprite-index/feature/sprite"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "sprite-index/docs/swagger"
)

// @title Sprite Index API
// @version 1.0
// @description API for resolving creature sprite assets and reading the published index.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sprite index server",
	Long:  `Loads the sprite table, then starts the HTTP server with all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := setup(false)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// A missing table is not fatal: resolve answers 503 until a build runs.
		if _, err := e.svc.LoadTable(cmd.Context()); err != nil {
			logg.Warn("Sprite table not loaded", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             e.cfg.Server.BodyLimitMB * 1024 * 1024,
			ReadTimeout:           time.Duration(e.cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		mgr := loader.NewManager()
		mgr.Register(sprite.NewFeature(e.svc))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			if err := app.Listen(e.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
