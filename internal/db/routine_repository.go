package db

import (
	"context"
	"time"

	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
)

type RoutineRepository struct {
	database *gorm.DB
}

func NewRoutineRepository(database *gorm.DB) *RoutineRepository {
	return &RoutineRepository{database: database}
}

func (repo *RoutineRepository) FindByID(ctx context.Context, coupleID uint, routineID uint) (models.Routine, error) {
	if err := requireTenant(coupleID); err != nil {
		return models.Routine{}, err
	}

	var routine models.Routine
	if err := repo.database.WithContext(ctx).
		Where("id = ? AND couple_id = ?", routineID, coupleID).
		First(&routine).Error; err != nil {
		return models.Routine{}, err
	}
	return routine, nil
}

func (repo *RoutineRepository) ListByCouple(ctx context.Context, coupleID uint) ([]models.Routine, error) {
	if err := requireTenant(coupleID); err != nil {
		return nil, err
	}

	routines := make([]models.Routine, 0)
	if err := repo.database.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("created_at ASC, id ASC").
		Find(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

// ListActive spans every couple; only the background generator uses it.
func (repo *RoutineRepository) ListActive(ctx context.Context) ([]models.Routine, error) {
	routines := make([]models.Routine, 0)
	if err := repo.database.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

func (repo *RoutineRepository) Create(ctx context.Context, routine *models.Routine) error {
	if err := requireTenant(routine.CoupleID); err != nil {
		return err
	}
	return repo.database.WithContext(ctx).Create(routine).Error
}

func (repo *RoutineRepository) UpdateByID(ctx context.Context, coupleID uint, routineID uint, updates map[string]any) error {
	if err := requireTenant(coupleID); err != nil {
		return err
	}
	return updateRoutine(repo.database.WithContext(ctx), coupleID, routineID, updates)
}

// Reschedule applies updates, deletes the routine's occurrences scheduled on
// or after purgeFrom that are not skipped, and inserts occurrences, in one
// transaction. It returns how many rows were purged and inserted.
func (repo *RoutineRepository) Reschedule(ctx context.Context, coupleID uint, routineID uint, updates map[string]any, purgeFrom time.Time, occurrences []models.RoutineOccurrence) (int64, int64, error) {
	if err := requireTenant(coupleID); err != nil {
		return 0, 0, err
	}
	for index := range occurrences {
		if occurrences[index].RoutineID != routineID || occurrences[index].CoupleID != coupleID {
			return 0, 0, errForeignOccurrence
		}
		occurrences[index].ScheduledDate = storedDay(occurrences[index].ScheduledDate)
	}

	var purged, inserted int64
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRoutine(tx, coupleID, routineID, updates); err != nil {
			return err
		}

		var err error
		if purged, err = deleteUnskippedFrom(tx, coupleID, routineID, storedDay(purgeFrom)); err != nil {
			return err
		}
		if len(occurrences) == 0 {
			return nil
		}
		inserted, err = insertOccurrences(tx, occurrences)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return purged, inserted, nil
}

func (repo *RoutineRepository) Delete(ctx context.Context, coupleID uint, routineID uint) error {
	if err := requireTenant(coupleID); err != nil {
		return err
	}

	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND couple_id = ?", routineID, coupleID).Delete(&models.Routine{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// Covers databases opened without the foreign_keys pragma.
		return tx.Where("routine_id = ? AND couple_id = ?", routineID, coupleID).Delete(&models.RoutineOccurrence{}).Error
	})
}

func updateRoutine(tx *gorm.DB, coupleID uint, routineID uint, updates map[string]any) error {
	result := tx.
		Model(&models.Routine{}).
		Where("id = ? AND couple_id = ?", routineID, coupleID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
