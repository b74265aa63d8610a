// Package sqlite implementa los puertos de persistencia con gorm sobre SQLite.
package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open abre (o crea) la base SQLite en dsn y migra el esquema.
// dsn puede ser una ruta de archivo o "file:x?mode=memory&cache=shared".
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", dsn, err)
	}
	// SQLite admite un solo escritor; una conexión evita "database is locked" entre goroutines.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate crea o actualiza las tablas.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&companyModel{}, &certificateModel{}, &invoiceModel{}); err != nil {
		return fmt.Errorf("migrar esquema: %w", err)
	}
	return nil
}

// Close cierra la conexión subyacente.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
