package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/spellduel/internal/platform/grpc/pagination"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/filter"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
)

const recordColumns = `id, duel_id, wizard_id, outcome, difficulty, ai_level, rounds, duration_ms,
		        damage_dealt, damage_taken, spells_cast_json, critical_hits, flawless,
		        final_blow, player_health, player_max_health, gold, experience, items_json,
		        new_spell, chosen_spell, seed, started_at, ended_at`

// PutBattleRecord inserts one finished duel.
func (s *Store) PutBattleRecord(ctx context.Context, record outcome.BattleRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	if strings.TrimSpace(record.DuelID) == "" {
		return fmt.Errorf("duel id is required")
	}
	spells, err := encodeList(record.SpellsCast)
	if err != nil {
		return fmt.Errorf("encode spells cast: %w", err)
	}
	items, err := encodeList(record.Rewards.Items)
	if err != nil {
		return fmt.Errorf("encode reward items: %w", err)
	}
	endedAt := record.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}
	flawless := 0
	if record.Flawless {
		flawless = 1
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO battle_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		record.DuelID,
		record.WizardID,
		string(record.Outcome),
		string(record.Difficulty),
		record.AILevel,
		record.Rounds,
		record.Duration.Milliseconds(),
		record.DamageDealt,
		record.DamageTaken,
		spells,
		record.CriticalHits,
		flawless,
		record.FinalBlow,
		record.PlayerHealth,
		record.PlayerMaxHealth,
		record.Rewards.Gold,
		record.Rewards.Experience,
		items,
		record.Rewards.NewSpell,
		record.ChosenSpell,
		record.Seed,
		toMillis(record.StartedAt),
		toMillis(endedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put battle record: %w", err)
	}
	return nil
}

// GetBattleRecord returns one record by id.
func (s *Store) GetBattleRecord(ctx context.Context, id string) (outcome.BattleRecord, error) {
	if err := s.ready(ctx); err != nil {
		return outcome.BattleRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return outcome.BattleRecord{}, fmt.Errorf("record id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM battle_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return outcome.BattleRecord{}, storage.ErrNotFound
		}
		return outcome.BattleRecord{}, fmt.Errorf("get battle record: %w", err)
	}
	return record, nil
}

// ListBattleRecords returns one page of records matching cond, newest first.
func (s *Store) ListBattleRecords(ctx context.Context, cond filter.Condition, pageSize int, pageToken string) (storage.BattleRecordPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.BattleRecordPage{}, err
	}
	if pageSize <= 0 {
		return storage.BattleRecordPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var clauses []string
	var params []any
	if !cond.Empty() {
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	if token := strings.TrimSpace(pageToken); token != "" {
		cursor, err := parsePageToken(token)
		if err != nil {
			return storage.BattleRecordPage{}, err
		}
		clauses = append(clauses, "(ended_at < ? OR (ended_at = ? AND id < ?))")
		params = append(params, cursor.Key, cursor.Key, cursor.ID)
	}
	query := `SELECT ` + recordColumns + ` FROM battle_records`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY ended_at DESC, id DESC LIMIT ?`
	params = append(params, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.BattleRecordPage{}, fmt.Errorf("list battle records: %w", err)
	}
	defer rows.Close()

	page := storage.BattleRecordPage{Records: make([]outcome.BattleRecord, 0, pageSize)}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return storage.BattleRecordPage{}, fmt.Errorf("list battle records: %w", err)
		}
		page.Records = append(page.Records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.BattleRecordPage{}, fmt.Errorf("list battle records: %w", err)
	}
	if len(page.Records) > pageSize {
		last := page.Records[pageSize-1]
		page.NextPageToken = pagination.Cursor{Key: toMillis(last.EndedAt), ID: last.ID}.Token()
		page.Records = page.Records[:pageSize]
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (outcome.BattleRecord, error) {
	var (
		record     outcome.BattleRecord
		result     string
		difficulty string
		durationMS int64
		spellsJSON string
		flawless   int
		itemsJSON  string
		startedAt  int64
		endedAt    int64
	)
	if err := row.Scan(
		&record.ID,
		&record.DuelID,
		&record.WizardID,
		&result,
		&difficulty,
		&record.AILevel,
		&record.Rounds,
		&durationMS,
		&record.DamageDealt,
		&record.DamageTaken,
		&spellsJSON,
		&record.CriticalHits,
		&flawless,
		&record.FinalBlow,
		&record.PlayerHealth,
		&record.PlayerMaxHealth,
		&record.Rewards.Gold,
		&record.Rewards.Experience,
		&itemsJSON,
		&record.Rewards.NewSpell,
		&record.ChosenSpell,
		&record.Seed,
		&startedAt,
		&endedAt,
	); err != nil {
		return outcome.BattleRecord{}, err
	}
	spells, err := decodeList(spellsJSON)
	if err != nil {
		return outcome.BattleRecord{}, fmt.Errorf("decode spells cast: %w", err)
	}
	items, err := decodeList(itemsJSON)
	if err != nil {
		return outcome.BattleRecord{}, fmt.Errorf("decode reward items: %w", err)
	}
	record.Outcome = outcome.Result(result)
	record.Difficulty = combat.Difficulty(difficulty)
	record.Duration = time.Duration(durationMS) * time.Millisecond
	record.SpellsCast = spells
	record.SpellsCastCount = len(spells)
	record.Flawless = flawless != 0
	record.Rewards.Items = items
	record.StartedAt = fromMillis(startedAt)
	record.EndedAt = fromMillis(endedAt)
	return record, nil
}
