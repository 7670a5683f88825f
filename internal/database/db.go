package database

import (
	"log"

	"github.com/ayberk/groupora/internal/config"
	"github.com/ayberk/groupora/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey,
	// which the reaction flow relies on to detect concurrent first reactions.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(&models.User{}, &models.Message{}, &models.Reaction{})

	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
