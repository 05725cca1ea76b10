package telegram

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/gotd/td/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresSessionStorage implements session.Storage, keeping one session per phone number
type PostgresSessionStorage struct {
	db        *gorm.DB
	phoneHash string
}

// NewPostgresSessionStorage creates a new PostgreSQL-based session storage
func NewPostgresSessionStorage(db *gorm.DB, phone string) (*PostgresSessionStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}

	return &PostgresSessionStorage{
		db:        db,
		phoneHash: hashPhone(phone),
	}, nil
}

// LoadSession loads session data from PostgreSQL
func (s *PostgresSessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	var sess SessionModel
	err := s.db.WithContext(ctx).Where("phone_hash = ?", s.phoneHash).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if len(sess.SessionData) == 0 {
		return nil, session.ErrNotFound
	}
	return sess.SessionData, nil
}

// StoreSession stores session data to PostgreSQL
func (s *PostgresSessionStorage) StoreSession(ctx context.Context, data []byte) error {
	sess := SessionModel{PhoneHash: s.phoneHash, SessionData: data}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_data", "updated_at"}),
	}).Create(&sess).Error
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// DeleteSession removes the stored session, forcing a new login on next connect
func (s *PostgresSessionStorage) DeleteSession(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("phone_hash = ?", s.phoneHash).Delete(&SessionModel{}).Error
}

// hashPhone returns the hex SHA-256 of the phone number
func hashPhone(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return fmt.Sprintf("%x", sum[:])
}

// maskPhone masks a phone number for logging, keeping the first and last two digits
func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	masked := []byte(phone)
	for i := 2; i < len(masked)-2; i++ {
		masked[i] = '*'
	}
	return string(masked)
}

var _ session.Storage = (*PostgresSessionStorage)(nil)
