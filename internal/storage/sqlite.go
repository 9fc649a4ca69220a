package storage

import (
	"errors"
	"time"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Preference is one stored key/value blob
type Preference struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLite is a Storage backed by a local SQLite file
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the SQLite file at path and migrates the schema
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) ([]byte, error) {
	var pref Preference
	result := s.db.First(&pref, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return pref.Value, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Save(&pref).Error
}

func (s *SQLite) Delete(key string) error {
	return s.db.Delete(&Preference{}, "key = ?", key).Error
}

// Close releases the underlying database handle
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
