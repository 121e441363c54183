package database

import (
	"log"
	"time"

	"primetop-backend/internal/config"
	"primetop-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Не удалось получить sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = DB.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.CoatingType{},
		&models.Product{},
		&models.Series{},
		&models.Analysis{},
		&models.Stock{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Cart{},
		&models.CartItem{},
		&models.TelegramLink{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Ошибка AutoMigrate: %v", err)
	}

	log.Println("Подключение к базе данных успешно. Миграция завершена.")
}
