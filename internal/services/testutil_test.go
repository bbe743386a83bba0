package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global handle at a fresh in-memory database named
// after the test, migrates the schema and seeds the two authorities.
func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb

	config.SetForTesting(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})

	for _, role := range []string{models.RoleAdmin, models.RoleUser} {
		require.NoError(t, db.DB.Create(&models.Authority{Name: role}).Error)
	}
}

func createTestUser(t *testing.T, username string, roles ...string) *models.User {
	t.Helper()

	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	var authorities []models.Authority
	require.NoError(t, db.DB.Where("name IN ?", roles).Find(&authorities).Error)

	user := models.User{Username: username, Password: hash, Authorities: authorities}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createTestQuestion(t *testing.T, username, title string) *models.Question {
	t.Helper()

	question, err := CreateQuestion(username, title, "some content")
	require.NoError(t, err)
	return question
}

func createTestAnswer(t *testing.T, questionID uint, username, content string) *models.Answer {
	t.Helper()

	answer, err := CreateAnswer(questionID, username, content)
	require.NoError(t, err)
	return answer
}
