package db

import (
	"context"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OccurrenceRepository struct {
	database *gorm.DB
}

func NewOccurrenceRepository(database *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{database: database}
}

func (repo *OccurrenceRepository) ListByRoutineRange(ctx context.Context, coupleID uint, routineID uint, fromStart *time.Time, toEnd *time.Time) ([]models.RoutineOccurrence, error) {
	if err := requireTenant(coupleID); err != nil {
		return nil, err
	}

	query := repo.database.WithContext(ctx).
		Model(&models.RoutineOccurrence{}).
		Where("routine_id = ? AND couple_id = ?", routineID, coupleID)
	if fromStart != nil {
		query = query.Where("scheduled_date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("scheduled_date < ?", *toEnd)
	}

	occurrences := make([]models.RoutineOccurrence, 0)
	if err := query.Order("scheduled_date ASC, id ASC").Find(&occurrences).Error; err != nil {
		return nil, err
	}
	return occurrences, nil
}

func (repo *OccurrenceRepository) ListDatesByRoutineRange(ctx context.Context, coupleID uint, routineID uint, dayStart time.Time, dayEnd time.Time) ([]time.Time, error) {
	if err := requireTenant(coupleID); err != nil {
		return nil, err
	}

	rows := make([]models.RoutineOccurrence, 0)
	if err := repo.database.WithContext(ctx).
		Select("scheduled_date").
		Where("routine_id = ? AND couple_id = ? AND scheduled_date >= ? AND scheduled_date < ?", routineID, coupleID, dayStart, dayEnd).
		Order("scheduled_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.ScheduledDate)
	}
	return dates, nil
}

// InsertBatch skips rows that collide on (routine_id, scheduled_date) and
// reports how many rows were actually written. Scheduled dates are stored
// date-only, as midnight UTC of their wall-clock date.
func (repo *OccurrenceRepository) InsertBatch(ctx context.Context, occurrences []models.RoutineOccurrence) (int64, error) {
	if len(occurrences) == 0 {
		return 0, nil
	}
	for index := range occurrences {
		if err := requireTenant(occurrences[index].CoupleID); err != nil {
			return 0, err
		}
		occurrences[index].ScheduledDate = storedDay(occurrences[index].ScheduledDate)
	}

	return insertOccurrences(repo.database.WithContext(ctx), occurrences)
}

func (repo *OccurrenceRepository) FindByID(ctx context.Context, coupleID uint, occurrenceID uint) (models.RoutineOccurrence, error) {
	if err := requireTenant(coupleID); err != nil {
		return models.RoutineOccurrence{}, err
	}

	var occurrence models.RoutineOccurrence
	if err := repo.database.WithContext(ctx).
		Where("id = ? AND couple_id = ?", occurrenceID, coupleID).
		First(&occurrence).Error; err != nil {
		return models.RoutineOccurrence{}, err
	}
	return occurrence, nil
}

func (repo *OccurrenceRepository) UpdateState(ctx context.Context, coupleID uint, occurrenceID uint, updates map[string]any) error {
	if err := requireTenant(coupleID); err != nil {
		return err
	}

	result := repo.database.WithContext(ctx).
		Model(&models.RoutineOccurrence{}).
		Where("id = ? AND couple_id = ?", occurrenceID, coupleID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func storedDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func insertOccurrences(tx *gorm.DB, occurrences []models.RoutineOccurrence) (int64, error) {
	result := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "routine_id"}, {Name: "scheduled_date"}},
			DoNothing: true,
		}).
		Create(&occurrences)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func deleteUnskippedFrom(tx *gorm.DB, coupleID uint, routineID uint, fromStart time.Time) (int64, error) {
	result := tx.
		Where("routine_id = ? AND couple_id = ? AND scheduled_date >= ? AND skipped = ?", routineID, coupleID, fromStart, false).
		Delete(&models.RoutineOccurrence{})
	return result.RowsAffected, result.Error
}
