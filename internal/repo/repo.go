package repo

import (
	"Inventaris/internal/model"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Ошибки хранилища, общие для всех реализаций (gorm, bolt).
var (
	ErrNotFound      = errors.New("record not found")
	ErrNegativeStock = errors.New("stock would become negative")
	// ErrDuplicate: нарушено условие уникальности (например, логин уже занят).
	ErrDuplicate = errors.New("duplicate record")
)

// Поддерживаемые драйверы хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// InitDB открывает реляционную БД через gorm и прогоняет миграции.
// Для sqlite используется pure-Go драйвер modernc.org/sqlite.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case DriverPostgres:
		dial = postgres.Open(dsn)
	case DriverSQLite, "":
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver != DriverPostgres {
		// sqlite не любит параллельных писателей: одно соединение на всех
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы всех моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Item{}, &model.Borrowing{})
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate переводит нарушение уникальности в ErrDuplicate.
// postgres переводит сам gorm (TranslateError), ошибку modernc sqlite разбираем по коду.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrDuplicate
		}
	}
	return err
}
