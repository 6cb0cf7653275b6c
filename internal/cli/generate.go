package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/terraincognita07/tandem/internal/db"
	"github.com/terraincognita07/tandem/internal/services"
)

type GenerateCmd struct {
	WindowDays int `name:"window-days" env:"GENERATE_WINDOW_DAYS" default:"30" help:"Days ahead to materialize."`
}

func (cmd *GenerateCmd) Run(ctx *Context) error {
	database, err := db.OpenSQLite(ctx.Globals.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	repositories := db.NewRepositories(database)
	routineService := services.NewRoutineService(
		repositories.Routines,
		repositories.Occurrences,
		repositories.Users,
		ctx.Clock,
		ctx.Location,
	)
	job := services.NewGeneratorJob(routineService, ctx.Clock, ctx.Location, services.DefaultGeneratorInterval, cmd.WindowDays)

	result, err := job.Tick(context.Background())
	if err != nil {
		return fmt.Errorf("generate occurrences: %w", err)
	}

	encoder := json.NewEncoder(ctx.Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
