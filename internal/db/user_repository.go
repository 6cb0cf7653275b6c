package db

import (
	"context"

	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) IsMember(ctx context.Context, coupleID uint, userID uint) (bool, error) {
	if err := requireTenant(coupleID); err != nil {
		return false, err
	}

	var matched int64
	if err := repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND couple_id = ?", userID, coupleID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) FindMember(ctx context.Context, coupleID uint, userID uint) (models.User, error) {
	if err := requireTenant(coupleID); err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := repo.database.WithContext(ctx).
		Where("id = ? AND couple_id = ?", userID, coupleID).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) CreateCouple(ctx context.Context, couple *models.Couple) error {
	return repo.database.WithContext(ctx).Create(couple).Error
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Create(user).Error
}
