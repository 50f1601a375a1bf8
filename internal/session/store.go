// Package session is the single access point for the persisted session: the
// API token and the display name. Components that need session state get a
// *Store injected instead of reading the persisted values themselves, which
// keeps the save/clear lifecycle and the name normalization in one place.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appLogger "github.com/booklane/bookstore-client/internal/logger"
)

const (
	// Keys mirror the storefront's fixed storage keys.
	keyToken    = "token"
	keyUserName = "userName"

	// nameDelimiter is the suffix marker the API appends to some display
	// names; everything from it onward is stripped on save.
	nameDelimiter = "5413"
)

// value is one persisted session key/value pair.
type value struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the table readable in the sqlite file.
func (value) TableName() string { return "session_values" }

// Store is a persistent key/value session store backed by sqlite, surviving
// process restarts the way browser local storage survives reloads.
type Store struct {
	db     *gorm.DB
	logger *appLogger.Logger

	mu    sync.RWMutex
	token string
	name  string
}

// Open opens (creating if needed) the session database at path and loads the
// current session into memory.
func Open(path string, log *appLogger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite supports a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&value{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}

	s := &Store{db: db, logger: log}
	if err := s.load(); err != nil {
		return nil, err
	}

	if log != nil {
		log.Debug("Session store opened", map[string]interface{}{
			"path":      path,
			"logged_in": s.Token() != "",
		})
	}
	return s, nil
}

func (s *Store) load() error {
	var values []value
	if err := s.db.Find(&values).Error; err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		switch v.Key {
		case keyToken:
			s.token = v.Value
		case keyUserName:
			s.name = v.Value
		}
	}
	return nil
}

func (s *Store) put(key, val string) error {
	v := value{Key: key, Value: val, UpdatedAt: time.Now()}
	if err := s.db.Save(&v).Error; err != nil {
		return fmt.Errorf("failed to persist session value %q: %w", key, err)
	}
	return nil
}

// Save stores the session from a successful login or registration. The
// display name is normalized once here: anything from the fixed delimiter
// onward is a server-side suffix, not part of the name.
func (s *Store) Save(token, displayName string) error {
	displayName = TruncateDisplayName(displayName)

	if err := s.put(keyToken, token); err != nil {
		return err
	}
	if err := s.put(keyUserName, displayName); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.name = displayName
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Session saved", map[string]interface{}{"user": displayName})
	}
	return nil
}

// Token returns the current session token, or "" when logged out.
// Implements the gateway client's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// DisplayName returns the logged-in user's display name, or "" when logged
// out.
func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// LoggedIn reports whether a session token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// Clear wipes the persisted session on logout.
func (s *Store) Clear() error {
	if err := s.db.Where("1 = 1").Delete(&value{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.name = ""
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Session cleared")
	}
	return nil
}

// TruncateDisplayName strips the server-side suffix from a display name.
func TruncateDisplayName(name string) string {
	if i := strings.Index(name, nameDelimiter); i >= 0 {
		return name[:i]
	}
	return name
}
