package services

import (
	"errors"
	"fmt"

	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/utils"

	"gorm.io/gorm"
)

func GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := db.DB.Preload("Authorities").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", models.ErrNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

func GetUsers() ([]*models.User, error) {
	var users []*models.User
	if err := db.DB.Preload("Authorities").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func CheckUsernameAvailability(username string) (bool, error) {
	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// CreateUser registers a new account with the USER role.
func CreateUser(username, password string) (*models.User, error) {
	available, err := CheckUsernameAvailability(username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: %q", models.ErrUsernameTaken, username)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var userRole models.Authority
	if err := db.DB.Where("name = ?", models.RoleUser).First(&userRole).Error; err != nil {
		return nil, err
	}

	user := models.User{
		Username:    username,
		Password:    hash,
		Authorities: []models.Authority{userRole},
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate exchanges credentials for the persisted user.
func Authenticate(username, password string) (*models.User, error) {
	user, err := GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrBadCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, models.ErrBadCredentials
	}
	return user, nil
}

// UpdateUsername renames the account, keeping everything else.
func UpdateUsername(username, newUsername string) (*models.User, error) {
	user, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if newUsername != username {
		available, err := CheckUsernameAvailability(newUsername)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("%w: %q", models.ErrUsernameTaken, newUsername)
		}
	}
	user.Username = newUsername
	if err := db.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func ChangePassword(username, newPassword string) error {
	user, err := GetUserByUsername(username)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	return db.DB.Save(user).Error
}

// DeleteUser removes the account. Authored questions and answers are
// detached, not deleted: authorship goes to NULL and the user's votes are
// stripped from every target, all inside one transaction.
func DeleteUser(username string) error {
	user, err := GetUserByUsername(username)
	if err != nil {
		return err
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Question{}).Where("author_id = ?", user.ID).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).Where("author_id = ?", user.ID).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Association("Authorities").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
}
