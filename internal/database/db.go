package database

import (
	"fmt"
	"log"
	"time"

	"agency-portal/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Open подключается к postgres, повторяя попытки, пока БД поднимается.
func Open(dsn string) (*gorm.DB, error) {
	return openWithRetry(postgres.Open(dsn), maxAttempts, retryBackoff)
}

// OpenSQLite открывает файл sqlite (или ":memory:") для локального запуска.
// Соединение одно: sqlite всё равно сериализует запись, а база в памяти
// живёт только внутри своего соединения.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := openWithRetry(sqlite.Open(path), 1, 0)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openWithRetry(dialector gorm.Dialector, attempts int, backoff time.Duration) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for i := 1; i <= attempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, attempts)

		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			log.Println("connected to DB successfully")
			return db, nil
		}

		log.Printf("failed to connect to DB: %v", err)
		if i < attempts {
			time.Sleep(backoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", attempts, err)
}

// Migrate создаёт/обновляет таблицы всех коллекций.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Client{},
		&models.Project{},
		&models.Stage{},
		&models.Ticket{},
		&models.Submission{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
