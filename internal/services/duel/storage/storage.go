// Package storage defines persistence contracts for duel records and wizard
// profiles.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/filter"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a record with the same id already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidPageToken indicates a page token that no list call produced.
	ErrInvalidPageToken = errors.New("invalid page token")
)

// BattleRecordPage is one page of battle records, newest first.
type BattleRecordPage struct {
	Records       []outcome.BattleRecord
	NextPageToken string
}

// BattleRecordStore persists finished duels.
type BattleRecordStore interface {
	PutBattleRecord(ctx context.Context, record outcome.BattleRecord) error
	GetBattleRecord(ctx context.Context, id string) (outcome.BattleRecord, error)
	ListBattleRecords(ctx context.Context, cond filter.Condition, pageSize int, pageToken string) (BattleRecordPage, error)
}

// Wizard is a player profile that accumulates duel rewards.
type Wizard struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Experience   int       `json:"experience"`
	Level        int       `json:"level"`
	Gold         int       `json:"gold"`
	// Spells are every spell the wizard has unlocked.
	Spells []string `json:"spells"`
	// Deck is the equipped subset of Spells a duel starts from.
	Deck         []string  `json:"deck,omitempty"`
	Items        []string  `json:"items,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WizardStore persists wizard profiles.
type WizardStore interface {
	GetWizard(ctx context.Context, id string) (Wizard, error)
	PutWizard(ctx context.Context, wizard Wizard) error
}

// Store is the full duel persistence surface.
type Store interface {
	BattleRecordStore
	WizardStore
	Close() error
}
