// Package identity keeps the two identifiers that tie this client
// installation to its remote cart: an opaque session id and the numeric cart
// reference. Both live in the durable client_state table when a database is
// available and in process memory otherwise.
package identity

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"floure-storefront/logging"
	"floure-storefront/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SessionIDKey = "floure_session_id"
	CartIDKey    = "floure_cart_id"
)

// Store never returns storage errors; it logs them and keeps working from
// memory so a broken state file cannot take the storefront down.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	mu        sync.Mutex
	sessionID string
	cartID    int64
}

// NewStore returns a store backed by db. A nil db gives a memory-only store.
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: logging.OrNop(log).Named("identity")}
}

// Durable reports whether identifiers survive a restart.
func (s *Store) Durable() bool {
	return s.db != nil
}

// GetOrCreateSessionID returns the persisted session id, generating and
// persisting one the first time.
func (s *Store) GetOrCreateSessionID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return s.memorySessionID()
	}

	value, ok, err := s.read(ctx, SessionIDKey)
	if err != nil {
		s.log.Warn("session id unreadable, using in-memory value", zap.Error(err))
		return s.memorySessionID()
	}
	if ok && value != "" {
		s.sessionID = value
		return value
	}

	id := s.sessionID
	if id == "" {
		id = newSessionID()
	}
	if err := s.write(ctx, SessionIDKey, id); err != nil {
		s.log.Warn("session id not persisted", zap.Error(err))
	}
	s.sessionID = id
	return id
}

// CartReference returns the stored remote cart id, if any.
func (s *Store) CartReference(ctx context.Context) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return s.cartID, s.cartID != 0
	}

	value, ok, err := s.read(ctx, CartIDKey)
	if err != nil {
		s.log.Warn("cart reference unreadable", zap.Error(err))
		return s.cartID, s.cartID != 0
	}
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		s.log.Warn("ignoring malformed cart reference", zap.String("value", value))
		return 0, false
	}
	s.cartID = id
	return id, true
}

// SetCartReference records the remote cart id durably.
func (s *Store) SetCartReference(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartID = id
	if s.db == nil {
		return
	}
	if err := s.write(ctx, CartIDKey, strconv.FormatInt(id, 10)); err != nil {
		s.log.Warn("cart reference not persisted", zap.Int64("cart_id", id), zap.Error(err))
	}
}

// Reset forgets both identifiers. The next session lookup starts a new
// anonymous shopper.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = ""
	s.cartID = 0
	if s.db == nil {
		return
	}
	for _, key := range []string{SessionIDKey, CartIDKey} {
		err := s.db.WithContext(ctx).Where(&models.ClientState{Key: key}).Delete(&models.ClientState{}).Error
		if err != nil {
			s.log.Warn("client state not cleared", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Store) memorySessionID() string {
	if s.sessionID == "" {
		s.sessionID = newSessionID()
	}
	return s.sessionID
}

func (s *Store) read(ctx context.Context, key string) (string, bool, error) {
	var row models.ClientState
	err := s.db.WithContext(ctx).Where(&models.ClientState{Key: key}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *Store) write(ctx context.Context, key, value string) error {
	row := models.ClientState{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func newSessionID() string {
	return uuid.NewString()
}
