package repo

import (
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/models"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

// UserRepo represents the repository for the user model
type UserRepo struct {
	db *gorm.DB
}

type UserRepoInterface interface {
	CreateUserWithProfile(email, passwordHash, fullName, phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserById(id uuid.UUID) (*models.User, error)
}

func NewUserRepository(db *gorm.DB) UserRepoInterface {
	return &UserRepo{db: db}
}

// CreateUserWithProfile creates the user row and its profile atomically
func (r *UserRepo) CreateUserWithProfile(email, passwordHash, fullName, phone string) (*models.User, error) {
	user := &models.User{
		UUID:         uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// Use a transaction to ensure user and profile are created together
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.Profile{
			UUID:      uuid.New(),
			UserID:    user.UUID,
			FullName:  fullName,
			Phone:     phone,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepo) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetUserById(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("uuid = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
