package db

import (
	"log"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := config.Get().DatabaseURL
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=forum port=5432 sslmode=disable"
	}

	var err error
	// questions.best_answer_id and answers.question_id reference each other,
	// so constraint creation is skipped during migration.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedAuthorities()
	seedAdmin()
}

// Migrate creates or updates the schema. Split out so tests can run it
// against their own database handle.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Authority{},
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
	)
}

func seedAuthorities() {
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		var count int64
		DB.Model(&models.Authority{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}
		if err := DB.Create(&models.Authority{Name: name}).Error; err != nil {
			log.Printf("Failed to create authority %s: %v", name, err)
		}
	}
}

func seedAdmin() {
	cfg := config.Get()
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account seeding")
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	var authorities []models.Authority
	DB.Where("name IN ?", []string{models.RoleAdmin, models.RoleUser}).Find(&authorities)

	admin := models.User{
		Username:    cfg.AdminUsername,
		Password:    hash,
		Authorities: authorities,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin account %q created", cfg.AdminUsername)
}
