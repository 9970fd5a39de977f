package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/storage"
)

// GetWizard returns one wizard profile by id.
func (s *Store) GetWizard(ctx context.Context, id string) (storage.Wizard, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Wizard{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Wizard{}, fmt.Errorf("wizard id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, experience, level, gold, spells_json, deck_json,
		        items_json, achievements_json, created_at, updated_at
		   FROM wizards
		  WHERE id = ?`,
		id,
	)
	var (
		wizard           storage.Wizard
		spellsJSON       string
		deckJSON         string
		itemsJSON        string
		achievementsJSON string
		createdAt        int64
		updatedAt        int64
	)
	err := row.Scan(
		&wizard.ID,
		&wizard.Name,
		&wizard.Experience,
		&wizard.Level,
		&wizard.Gold,
		&spellsJSON,
		&deckJSON,
		&itemsJSON,
		&achievementsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Wizard{}, storage.ErrNotFound
		}
		return storage.Wizard{}, fmt.Errorf("get wizard: %w", err)
	}
	if wizard.Spells, err = decodeList(spellsJSON); err != nil {
		return storage.Wizard{}, fmt.Errorf("decode wizard spells: %w", err)
	}
	if wizard.Deck, err = decodeList(deckJSON); err != nil {
		return storage.Wizard{}, fmt.Errorf("decode wizard deck: %w", err)
	}
	if wizard.Items, err = decodeList(itemsJSON); err != nil {
		return storage.Wizard{}, fmt.Errorf("decode wizard items: %w", err)
	}
	if wizard.Achievements, err = decodeList(achievementsJSON); err != nil {
		return storage.Wizard{}, fmt.Errorf("decode wizard achievements: %w", err)
	}
	wizard.CreatedAt = fromMillis(createdAt)
	wizard.UpdatedAt = fromMillis(updatedAt)
	return wizard, nil
}

// PutWizard inserts or replaces a wizard profile.
func (s *Store) PutWizard(ctx context.Context, wizard storage.Wizard) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(wizard.ID)
	if id == "" {
		return fmt.Errorf("wizard id is required")
	}
	spells, err := encodeList(wizard.Spells)
	if err != nil {
		return fmt.Errorf("encode wizard spells: %w", err)
	}
	deck, err := encodeList(wizard.Deck)
	if err != nil {
		return fmt.Errorf("encode wizard deck: %w", err)
	}
	items, err := encodeList(wizard.Items)
	if err != nil {
		return fmt.Errorf("encode wizard items: %w", err)
	}
	achievements, err := encodeList(wizard.Achievements)
	if err != nil {
		return fmt.Errorf("encode wizard achievements: %w", err)
	}
	now := time.Now().UTC()
	createdAt := wizard.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := wizard.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}
	level := wizard.Level
	if level < 1 {
		level = 1
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO wizards (
		   id, name, experience, level, gold, spells_json, deck_json,
		   items_json, achievements_json, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   experience = excluded.experience,
		   level = excluded.level,
		   gold = excluded.gold,
		   spells_json = excluded.spells_json,
		   deck_json = excluded.deck_json,
		   items_json = excluded.items_json,
		   achievements_json = excluded.achievements_json,
		   updated_at = excluded.updated_at`,
		id,
		strings.TrimSpace(wizard.Name),
		wizard.Experience,
		level,
		wizard.Gold,
		spells,
		deck,
		items,
		achievements,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put wizard: %w", err)
	}
	return nil
}
