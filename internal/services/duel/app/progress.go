package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/platform/grpc/pagination"
	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/filter"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListRecordsPageSize = 10
	maxListRecordsPageSize     = 50
)

// ListRecordsRequest selects one page of battle records.
type ListRecordsRequest struct {
	// Filter is an AIP-160 expression over record fields.
	Filter    string `json:"filter,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// RecordPage is one page of battle records, newest first.
type RecordPage struct {
	Records       []outcome.BattleRecord `json:"records"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

// ChooseSpell completes the level-up offer of a finished duel and stores its
// record. A retry after a storage failure repeats only the unfinished steps.
func (s *Service) ChooseSpell(ctx context.Context, duelID, spellID string) (Duel, error) {
	ctx, span := s.tracer.Start(ctx, "duel.ChooseSpell", trace.WithAttributes(
		attribute.String("duel.id", duelID),
		attribute.String("duel.spell_id", spellID),
	))
	defer span.End()

	sess, err := s.session(duelID)
	if err != nil {
		return Duel{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.pending == nil || len(sess.offer) == 0 {
		return Duel{}, apperrors.WithMetadata(apperrors.CodeSpellChoiceNotPending, "no spell choice pending", map[string]string{"DuelID": sess.id})
	}
	spellID = strings.TrimSpace(spellID)
	if sess.chosen == "" {
		if err := s.learnSpell(ctx, sess, spellID); err != nil {
			return Duel{}, err
		}
		sess.chosen = spellID
	} else if sess.chosen != spellID {
		return Duel{}, &apperrors.Error{
			Code:     apperrors.CodeSpellChoiceInvalid,
			Message:  fmt.Sprintf("spell %s was already chosen", sess.chosen),
			Metadata: map[string]string{"SpellID": spellID},
		}
	}

	record := *sess.pending
	record.ChosenSpell = sess.chosen
	if err := s.putRecord(ctx, record); err != nil {
		return Duel{}, err
	}
	sess.pending = nil
	sess.offer = nil
	sess.settled = true
	sess.recordID = record.ID
	return sess.view(), nil
}

func (s *Service) learnSpell(ctx context.Context, sess *session, spellID string) error {
	unlock := s.lockWizard(sess.wizardID)
	defer unlock()

	wizard, err := s.store.GetWizard(ctx, sess.wizardID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "load wizard", err)
	}
	unlocked, err := outcome.ApplySpellChoice(sess.offer, spellID, wizard.Spells)
	if err != nil {
		return &apperrors.Error{
			Code:     apperrors.CodeSpellChoiceInvalid,
			Message:  err.Error(),
			Metadata: map[string]string{"SpellID": spellID},
			Cause:    err,
		}
	}
	wizard.Spells = unlocked
	wizard.UpdatedAt = s.clock().UTC()
	if err := s.store.PutWizard(ctx, wizard); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "save wizard", err)
	}
	s.logger.Printf("duel %s: wizard %s learned %s", sess.id, sess.wizardID, spellID)
	return nil
}

// GetBattleRecord returns one stored battle record.
func (s *Service) GetBattleRecord(ctx context.Context, recordID string) (outcome.BattleRecord, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return outcome.BattleRecord{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, "record id is required", map[string]string{"Detail": "record id is required"})
	}
	if s.store == nil {
		return outcome.BattleRecord{}, apperrors.New(apperrors.CodeInternal, "storage is not configured")
	}
	record, err := s.store.GetBattleRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return outcome.BattleRecord{}, apperrors.New(apperrors.CodeNotFound, "battle record not found")
		}
		return outcome.BattleRecord{}, apperrors.Wrap(apperrors.CodeInternal, "get battle record", err)
	}
	return record, nil
}

// GetWizard returns a wizard profile.
func (s *Service) GetWizard(ctx context.Context, wizardID string) (storage.Wizard, error) {
	wizardID = strings.TrimSpace(wizardID)
	if wizardID == "" {
		return storage.Wizard{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, "wizard id is required", map[string]string{"Detail": "wizard id is required"})
	}
	if s.store == nil {
		return storage.Wizard{}, apperrors.New(apperrors.CodeInternal, "storage is not configured")
	}
	wizard, err := s.store.GetWizard(ctx, wizardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Wizard{}, apperrors.New(apperrors.CodeNotFound, "wizard not found")
		}
		return storage.Wizard{}, apperrors.Wrap(apperrors.CodeInternal, "get wizard", err)
	}
	return wizard, nil
}

// ListBattleRecords returns stored records matching req.
func (s *Service) ListBattleRecords(ctx context.Context, req ListRecordsRequest) (RecordPage, error) {
	if s.store == nil {
		return RecordPage{}, apperrors.New(apperrors.CodeInternal, "storage is not configured")
	}
	cond, err := filter.Parse(req.Filter)
	if err != nil {
		return RecordPage{}, &apperrors.Error{
			Code:     apperrors.CodeRecordFilterInvalid,
			Message:  err.Error(),
			Metadata: map[string]string{"Detail": err.Error()},
			Cause:    err,
		}
	}
	pageSize := pagination.ClampPageSize(req.PageSize, pagination.PageSizeConfig{
		Default: defaultListRecordsPageSize,
		Max:     maxListRecordsPageSize,
	})
	page, err := s.store.ListBattleRecords(ctx, cond, pageSize, req.PageToken)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPageToken) {
			return RecordPage{}, apperrors.Wrap(apperrors.CodeRecordPageInvalid, err.Error(), err)
		}
		return RecordPage{}, apperrors.Wrap(apperrors.CodeInternal, "list battle records", err)
	}
	return RecordPage{Records: page.Records, NextPageToken: page.NextPageToken}, nil
}

// loadWizard returns the wizard profile, creating it on first use. A new
// wizard unlocks and equips the spells it starts with.
func (s *Service) loadWizard(ctx context.Context, wizardID string, player engine.CombatantSeed) (storage.Wizard, error) {
	if s.store == nil {
		return storage.Wizard{}, apperrors.New(apperrors.CodeInternal, "storage is not configured")
	}
	unlock := s.lockWizard(wizardID)
	defer unlock()

	wizard, err := s.store.GetWizard(ctx, wizardID)
	if err == nil {
		return wizard, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return storage.Wizard{}, apperrors.Wrap(apperrors.CodeInternal, "get wizard", err)
	}
	if len(player.Spells) == 0 {
		return storage.Wizard{}, setupError(errors.New("a new wizard needs a starting spell list"))
	}
	now := s.clock().UTC()
	wizard = storage.Wizard{
		ID:        wizardID,
		Name:      strings.TrimSpace(player.Name),
		Level:     1,
		Spells:    uniqueSpells(player.Spells),
		Deck:      slices.Clone(player.Spells),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutWizard(ctx, wizard); err != nil {
		return storage.Wizard{}, apperrors.Wrap(apperrors.CodeInternal, "create wizard", err)
	}
	s.logger.Printf("wizard %s created", wizardID)
	return wizard, nil
}

// equipDeck saves deck as the wizard's equipped deck.
func (s *Service) equipDeck(ctx context.Context, wizardID string, deck []string) error {
	unlock := s.lockWizard(wizardID)
	defer unlock()

	wizard, err := s.store.GetWizard(ctx, wizardID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "load wizard", err)
	}
	if locked := lockedSpells(deck, wizard.Spells); len(locked) > 0 {
		return setupError(fmt.Errorf("wizard %s has not unlocked %s", wizardID, strings.Join(locked, ", ")))
	}
	wizard.Deck = slices.Clone(deck)
	wizard.UpdatedAt = s.clock().UTC()
	if err := s.store.PutWizard(ctx, wizard); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "save wizard", err)
	}
	return nil
}

// finish settles a terminal duel: it builds the record once, rewards the
// wizard once and stores the record. Each step is skipped on a retry once it
// has succeeded. A level-up defers the record until the wizard picks a spell.
func (s *Service) finish(ctx context.Context, sess *session) error {
	if sess.record == nil {
		recordID, err := s.newID()
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "generate record id", err)
		}
		record, err := outcome.BuildRecord(sess.state, outcome.RecordMeta{
			ID:        recordID,
			DuelID:    sess.id,
			WizardID:  sess.wizardID,
			StartedAt: sess.startedAt,
			EndedAt:   s.clock().UTC(),
		})
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "build battle record", err)
		}
		sess.record = &record
		sess.achievements = outcome.EarnedAchievements(record)
		s.logger.Printf("duel %s ended: %s in %d rounds", sess.id, record.Outcome, record.Rounds)
	}
	record := *sess.record

	if s.store == nil || sess.rollMode == random.RollModeReplay {
		sess.settled = true
		if s.store == nil {
			sess.recordID = record.ID
		}
		return nil
	}
	if sess.wizardID != "" && !sess.rewarded {
		offer, err := s.rewardWizard(ctx, sess, record)
		if err != nil {
			return err
		}
		sess.rewarded = true
		if len(offer) > 0 {
			sess.offer = offer
			sess.pending = &record
			return nil
		}
	}
	if err := s.putRecord(ctx, record); err != nil {
		return err
	}
	sess.settled = true
	sess.recordID = record.ID
	return nil
}

// putRecord stores record. A record already stored by an earlier attempt
// counts as stored.
func (s *Service) putRecord(ctx context.Context, record outcome.BattleRecord) error {
	err := s.store.PutBattleRecord(ctx, record)
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return apperrors.Wrap(apperrors.CodeInternal, "save battle record", err)
	}
	return nil
}

// rewardWizard applies duel rewards to the wizard and returns a spell offer
// when the wizard leveled up. Rewards land in one write under the wizard lock.
func (s *Service) rewardWizard(ctx context.Context, sess *session, record outcome.BattleRecord) ([]string, error) {
	unlock := s.lockWizard(sess.wizardID)
	defer unlock()

	wizard, err := s.store.GetWizard(ctx, sess.wizardID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "load wizard", err)
	}
	before := wizard.Experience
	wizard.Experience += record.Rewards.Experience
	wizard.Gold += record.Rewards.Gold
	wizard.Items = append(wizard.Items, record.Rewards.Items...)
	if id := record.Rewards.NewSpell; id != "" && !slices.Contains(wizard.Spells, id) {
		wizard.Spells = append(wizard.Spells, id)
	}
	for _, achievement := range sess.achievements {
		if !slices.Contains(wizard.Achievements, achievement) {
			wizard.Achievements = append(wizard.Achievements, achievement)
		}
	}
	wizard.Level = s.progression.LevelFor(wizard.Experience)
	wizard.UpdatedAt = s.clock().UTC()
	if err := s.store.PutWizard(ctx, wizard); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "save wizard", err)
	}

	if !s.progression.LeveledUp(before, wizard.Experience) {
		return nil, nil
	}
	sess.leveledUp = true
	rng := random.Derive(sess.state.Seed, sess.state.RandCursor)
	offer := outcome.OfferSpellChoice(sess.state.Enemy.Pool, wizard.Spells, s.engine.Catalog(), rng)
	s.logger.Printf("duel %s: wizard %s reached level %d", sess.id, wizard.ID, wizard.Level)
	return offer, nil
}

// uniqueSpells drops repeated ids, keeping first occurrences in order.
func uniqueSpells(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
