package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/terraincognita07/tandem/internal/logger"
	"github.com/terraincognita07/tandem/internal/services"
	"gorm.io/gorm"
)

// Globals are flags shared by every command. Each one can also come from the
// environment.
type Globals struct {
	DBPath   string `name:"db-path" env:"DB_PATH" default:"data/tandem.db" help:"SQLite database file."`
	TZ       string `name:"tz" env:"TZ" default:"UTC" help:"IANA time zone that defines calendar days."`
	LogLevel string `name:"log-level" env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)."`
	LogFile  string `name:"log-file" env:"LOG_FILE" help:"Also write logs to this file, rotated by size."`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `help:"Print version and exit."`
	Serve    ServeCmd         `cmd:"" default:"1" help:"Run the HTTP API and the daily occurrence generator."`
	Generate GenerateCmd      `cmd:"" help:"Generate occurrences for every active routine once and exit."`
	Migrate  MigrateCmd       `cmd:"" help:"Apply database migrations."`
}

// Context is bound into every command's Run method.
type Context struct {
	Globals  *Globals
	Location *time.Location
	Clock    services.Clock
	Out      io.Writer
}

func NewContext(globals *Globals, out io.Writer) (*Context, error) {
	if err := logger.Init(logger.Config{Level: globals.LogLevel, LogFile: globals.LogFile}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	location := resolveLocation(globals.TZ)
	time.Local = location
	return &Context{
		Globals:  globals,
		Location: location,
		Clock:    services.SystemClock{},
		Out:      out,
	}, nil
}

func resolveLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("invalid TZ, falling back to UTC", "tz", name, "err", err)
		return time.UTC
	}
	return location
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", "err", err)
	}
}
