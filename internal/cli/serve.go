package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/tandem/internal/api"
	"github.com/terraincognita07/tandem/internal/db"
	"github.com/terraincognita07/tandem/internal/logger"
	"github.com/terraincognita07/tandem/internal/services"
)

const (
	minSecretKeyLength = 32
	shutdownTimeout    = 10 * time.Second
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type ServeCmd struct {
	Port       string        `env:"PORT" default:"8080" help:"HTTP listen port."`
	SecretKey  string        `name:"secret-key" env:"SECRET_KEY" help:"HS256 key shared with the identity service."`
	WindowDays int           `name:"window-days" env:"GENERATE_WINDOW_DAYS" default:"30" help:"Days ahead the generator keeps materialized."`
	Interval   time.Duration `default:"24h" hidden:"" help:"Delay between generator runs after the first midnight."`
}

func (cmd *ServeCmd) Run(ctx *Context) error {
	secret, err := validateSecretKey(cmd.SecretKey)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(ctx.Globals.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	handler, err := api.NewHandler(database, secret, ctx.Location, ctx.Clock)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newServer(handler)

	job := services.NewGeneratorJob(handler.RoutineService(), ctx.Clock, ctx.Location, cmd.Interval, cmd.WindowDays)
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	job.Start(lifecycleCtx)
	defer job.Stop()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		job.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", "err", err)
		}
	}()

	logger.Info("tandem listening",
		"addr", "0.0.0.0:"+cmd.Port,
		"db", ctx.Globals.DBPath,
		"tz", ctx.Location.String(),
		"window_days", cmd.WindowDays,
	)
	if err := app.Listen(":" + cmd.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServer(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Tandem",
		DisableStartupMessage: true,
		ErrorHandler:          api.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: logger.Writer(),
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

func validateSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}
