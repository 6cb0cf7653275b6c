package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "tandem-test.db"))
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

type seededCouple struct {
	couple  models.Couple
	members []models.User
}

func seedCouple(t *testing.T, repos *Repositories, name string, emails ...string) seededCouple {
	t.Helper()
	ctx := context.Background()

	couple := models.Couple{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, repos.Users.CreateCouple(ctx, &couple))

	seeded := seededCouple{couple: couple}
	for _, email := range emails {
		coupleID := couple.ID
		user := models.User{CoupleID: &coupleID, Email: email, DisplayName: email, CreatedAt: time.Now().UTC()}
		require.NoError(t, repos.Users.Create(ctx, &user))
		seeded.members = append(seeded.members, user)
	}
	return seeded
}

func seedDailyRoutine(t *testing.T, repos *Repositories, couple seededCouple, name string) models.Routine {
	t.Helper()

	routine := models.Routine{
		CoupleID:    couple.couple.ID,
		Name:        name,
		Schedule:    models.Schedule{Frequency: models.FrequencyDaily},
		IsActive:    true,
		CreatedByID: couple.members[0].ID,
	}
	require.NoError(t, repos.Routines.Create(context.Background(), &routine))
	return routine
}

func utcDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func occurrencesFor(routine models.Routine, days ...time.Time) []models.RoutineOccurrence {
	occurrences := make([]models.RoutineOccurrence, 0, len(days))
	for _, day := range days {
		occurrences = append(occurrences, models.RoutineOccurrence{
			RoutineID:     routine.ID,
			CoupleID:      routine.CoupleID,
			ScheduledDate: day,
		})
	}
	return occurrences
}
