package cli

import (
	"fmt"
	"time"

	"github.com/terraincognita07/tandem/internal/db"
)

type MigrateCmd struct {
	Status bool `help:"List migrations and when they were applied instead of applying them."`
}

func (cmd *MigrateCmd) Run(ctx *Context) error {
	database, err := db.Open(ctx.Globals.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	if cmd.Status {
		states, err := db.MigrationStatus(database)
		if err != nil {
			return err
		}
		for _, state := range states {
			applied := "pending"
			if state.Applied() {
				applied = "applied " + state.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(ctx.Out, "%-40s %s\n", state.Name, applied)
		}
		return nil
	}

	applied, err := db.ApplyMigrations(database)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(ctx.Out, "No migrations to apply. Database is up to date.")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(ctx.Out, "applied %s\n", name)
	}
	fmt.Fprintf(ctx.Out, "Successfully applied %d migration(s).\n", len(applied))
	return nil
}
