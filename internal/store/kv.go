package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/i474232898/dailyweather/internal/weather"
)

// Preference is one persisted key. Value holds a JSON array of strings.
type Preference struct {
	Key       string `gorm:"column:name;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// gormKeyValue implements KeyValue using GORM.
type gormKeyValue struct {
	db *gorm.DB
}

// NewGormKeyValue creates a GORM-backed KeyValue. The preferences table must exist.
func NewGormKeyValue(db *gorm.DB) KeyValue {
	return &gormKeyValue{db: db}
}

func (s *gormKeyValue) Save(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", weather.ErrPersistenceUnavailable, key, err)
	}

	pref := Preference{Key: key, Value: string(raw), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("%w: save %q: %v", weather.ErrPersistenceUnavailable, key, err)
	}
	return nil
}

func (s *gormKeyValue) Load(ctx context.Context, key string) ([]string, error) {
	var pref Preference
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return []string{}, fmt.Errorf("%w: load %q: %v", weather.ErrPersistenceUnavailable, key, err)
	}

	var values []string
	if err := json.Unmarshal([]byte(pref.Value), &values); err != nil {
		return []string{}, fmt.Errorf("%w: decode %q: %v", weather.ErrPersistenceUnavailable, key, err)
	}
	return values, nil
}
