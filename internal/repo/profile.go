package repo

import (
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/models"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ProfileRepo struct {
	db *gorm.DB
}

type ProfileRepoInterface interface {
	GetProfileByUserId(userId uuid.UUID) (*models.Profile, error)
	UpdateProfile(userId uuid.UUID, fullName, phone string) (*models.Profile, error)
}

func NewProfileRepository(db *gorm.DB) ProfileRepoInterface {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetProfileByUserId(userId uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userId).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) UpdateProfile(userId uuid.UUID, fullName, phone string) (*models.Profile, error) {
	profile, err := r.GetProfileByUserId(userId)
	if err != nil {
		return nil, err
	}

	profile.FullName = fullName
	profile.Phone = phone
	profile.UpdatedAt = time.Now()

	if err := r.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
