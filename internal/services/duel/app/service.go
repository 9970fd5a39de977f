// Package app runs duels for remote callers.
//
// The engine is pure; this package owns everything around it: the in-memory
// session registry, seed policy, scheduling of the opponent turn, wizard
// progression and battle record persistence.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/platform/id"
	"github.com/louisbranch/spellduel/internal/platform/otel"
	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/policy"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxHealth        = 100
	defaultMaxMana          = 100
	defaultManaRegen        = 10
	defaultOpponentDeckSize = 6

	defaultFinishedRetention = 10 * time.Minute
	defaultIdleTimeout       = time.Hour

	// opponentDeckCursor keeps opponent generation off the engine's stream.
	opponentDeckCursor = math.MaxUint64
)

// API is the duel surface shared by the in-process service and remote clients.
type API interface {
	StartDuel(ctx context.Context, req StartRequest) (Duel, error)
	Act(ctx context.Context, duelID string, action engine.Action) (Duel, error)
	ResolveOpponent(ctx context.Context, duelID string) (Duel, error)
	GetDuel(ctx context.Context, duelID string) (Duel, error)
	ChooseSpell(ctx context.Context, duelID, spellID string) (Duel, error)
	ListBattleRecords(ctx context.Context, req ListRecordsRequest) (RecordPage, error)
	GetBattleRecord(ctx context.Context, recordID string) (outcome.BattleRecord, error)
	ListSpells(ctx context.Context) ([]spell.Spell, error)
	GetWizard(ctx context.Context, wizardID string) (storage.Wizard, error)
}

// StartRequest describes a new duel.
type StartRequest struct {
	// WizardID links the duel to a persistent profile. Optional.
	WizardID   string               `json:"wizard_id,omitempty"`
	Player     engine.CombatantSeed `json:"player"`
	Enemy      engine.CombatantSeed `json:"enemy"`
	Difficulty string               `json:"difficulty,omitempty"`
	Locale     string               `json:"locale,omitempty"`
	// Seed is honored when the service allows client seeds. Replays always
	// honor it.
	Seed *uint64 `json:"-"`
	// RollMode REPLAY re-runs a recorded seed. Replays grant no rewards and
	// store no record.
	RollMode string `json:"roll_mode,omitempty"`
}

// Duel is the caller view of one duel session.
type Duel struct {
	ID         string            `json:"id"`
	WizardID   string            `json:"wizard_id,omitempty"`
	SeedSource random.SeedSource `json:"seed_source"`
	RollMode   random.RollMode   `json:"roll_mode,omitempty"`
	State      combat.State      `json:"state"`
	// Events are the facts produced by the most recent transition.
	Events       []event.Envelope `json:"events,omitempty"`
	SpellOffer   []string         `json:"spell_offer,omitempty"`
	RecordID     string           `json:"record_id,omitempty"`
	Achievements []string         `json:"achievements,omitempty"`
	LeveledUp    bool             `json:"leveled_up,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
}

// Config wires a Service.
type Config struct {
	Engine *engine.Engine
	// Store persists records and wizards. A nil store keeps duels in memory only.
	Store           storage.Store
	OpponentDelay   time.Duration
	AllowClientSeed bool
	Logger          *log.Logger
	// FinishedRetention keeps settled duels readable before eviction.
	FinishedRetention time.Duration
	// IdleTimeout evicts any duel nobody touched for this long.
	IdleTimeout time.Duration

	Clock     func() time.Time
	AfterFunc func(time.Duration, func())
	NewID     func() (string, error)
	SeedFunc  func() (int64, error)
}

// Service hosts duel sessions.
type Service struct {
	engine          *engine.Engine
	store           storage.Store
	delay           time.Duration
	allowClientSeed bool
	logger          *log.Logger
	clock           func() time.Time
	afterFunc       func(time.Duration, func())
	newID           func() (string, error)
	seedFunc        func() (int64, error)
	progression     outcome.Progression
	tracer          trace.Tracer
	retention       time.Duration
	idleTimeout     time.Duration

	mu       sync.Mutex
	sessions map[string]*session

	wizardMu    sync.Mutex
	wizardLocks map[string]*wizardLock
}

type session struct {
	mu         sync.Mutex
	id         string
	wizardID   string
	seedSource random.SeedSource
	rollMode   random.RollMode
	startedAt  time.Time
	state      combat.State
	events     []event.Event

	// lastActive is guarded by Service.mu.
	lastActive time.Time

	// record is built once when the duel ends; settlement retries reuse it.
	record   *outcome.BattleRecord
	rewarded bool
	// pending holds the record of a finished duel that waits for a spell choice.
	pending *outcome.BattleRecord
	offer   []string
	chosen  string
	// settled is set once nothing about the finished duel remains to be stored.
	settled      bool
	recordID     string
	achievements []string
	leveledUp    bool
}

type wizardLock struct {
	mu   sync.Mutex
	refs int
}

// New builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Engine == nil {
		return nil, errors.New("duel engine is required")
	}
	if cfg.OpponentDelay < 0 {
		return nil, fmt.Errorf("opponent delay %s must not be negative", cfg.OpponentDelay)
	}
	svc := &Service{
		engine:          cfg.Engine,
		store:           cfg.Store,
		delay:           cfg.OpponentDelay,
		allowClientSeed: cfg.AllowClientSeed,
		logger:          cfg.Logger,
		clock:           cfg.Clock,
		afterFunc:       cfg.AfterFunc,
		newID:           cfg.NewID,
		seedFunc:        cfg.SeedFunc,
		progression:     outcome.Progression{ExperiencePerLevel: cfg.Engine.Rules().ExperiencePerLevel},
		tracer:          otel.Tracer("spellduel/duel"),
		retention:       cfg.FinishedRetention,
		idleTimeout:     cfg.IdleTimeout,
		sessions:        make(map[string]*session),
		wizardLocks:     make(map[string]*wizardLock),
	}
	if svc.retention <= 0 {
		svc.retention = defaultFinishedRetention
	}
	if svc.idleTimeout <= 0 {
		svc.idleTimeout = defaultIdleTimeout
	}
	if svc.logger == nil {
		svc.logger = log.New(os.Stderr, "", 0)
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.afterFunc == nil {
		svc.afterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if svc.newID == nil {
		svc.newID = id.NewID
	}
	if svc.seedFunc == nil {
		svc.seedFunc = random.NewSeed
	}
	return svc, nil
}

// StartDuel validates req, resolves the seed and deals the opening hands.
func (s *Service) StartDuel(ctx context.Context, req StartRequest) (Duel, error) {
	ctx, span := s.tracer.Start(ctx, "duel.StartDuel")
	defer span.End()

	mode := random.ParseRollMode(req.RollMode)
	if mode == random.RollModeReplay && req.Seed == nil {
		return Duel{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, "a replay needs the recorded seed", map[string]string{"Detail": "a replay needs the recorded seed"})
	}
	seed, source, mode, err := random.ResolveSeed(
		&random.Request{Seed: req.Seed, RollMode: mode},
		s.seedFunc,
		func(mode random.RollMode) bool { return s.allowClientSeed || mode == random.RollModeReplay },
	)
	if err != nil {
		if errors.Is(err, random.ErrSeedOutOfRange()) {
			return Duel{}, apperrors.New(apperrors.CodeSeedOutOfRange, err.Error())
		}
		return Duel{}, apperrors.Wrap(apperrors.CodeInternal, "resolve seed", err)
	}

	wizardID := strings.TrimSpace(req.WizardID)
	var wizard *storage.Wizard
	if wizardID != "" {
		w, err := s.loadWizard(ctx, wizardID, req.Player)
		if err != nil {
			return Duel{}, err
		}
		wizard = &w
	}

	setup, err := s.buildSetup(req, seed, wizard)
	if err != nil {
		return Duel{}, err
	}
	result, err := s.engine.NewDuel(setup)
	if err != nil {
		return Duel{}, setupError(err)
	}

	if wizard != nil && !slices.Equal(setup.Player.Spells, equippedDeck(*wizard)) {
		if err := s.equipDeck(ctx, wizardID, setup.Player.Spells); err != nil {
			return Duel{}, err
		}
	}

	duelID, err := s.newID()
	if err != nil {
		return Duel{}, apperrors.Wrap(apperrors.CodeInternal, "generate duel id", err)
	}
	now := s.clock().UTC()
	sess := &session{
		id:         duelID,
		wizardID:   wizardID,
		seedSource: source,
		rollMode:   mode,
		startedAt:  now,
		lastActive: now,
		state:      result.State,
		events:     result.Events,
	}
	s.mu.Lock()
	s.evictLocked(now)
	if _, exists := s.sessions[duelID]; exists {
		s.mu.Unlock()
		return Duel{}, apperrors.WithMetadata(apperrors.CodeDuelAlreadyExists, "duel id collision", map[string]string{"DuelID": duelID})
	}
	s.sessions[duelID] = sess
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("duel.id", duelID),
		attribute.String("duel.difficulty", string(result.State.Difficulty)),
		attribute.String("duel.seed_source", string(source)),
		attribute.String("duel.roll_mode", string(mode)),
	)
	s.logger.Printf("duel %s started: %s vs %s (%s)", duelID, result.State.Player.Name, result.State.Enemy.Name, result.State.Difficulty)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Act applies a player action. An accepted action hands the turn to the
// opponent, which resolves inline when no delay is configured.
func (s *Service) Act(ctx context.Context, duelID string, action engine.Action) (Duel, error) {
	ctx, span := s.tracer.Start(ctx, "duel.Act", trace.WithAttributes(
		attribute.String("duel.id", duelID),
		attribute.String("duel.action", string(action.Kind)),
	))
	defer span.End()

	sess, err := s.session(duelID)
	if err != nil {
		return Duel{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.unsettled() {
		if err := s.finish(ctx, sess); err != nil {
			return Duel{}, err
		}
		return sess.view(), nil
	}

	step := s.engine.Act
	if s.delay == 0 {
		step = s.engine.Exchange
	}
	result := step(sess.state, action)
	sess.state = result.State
	sess.events = result.Events
	if result.Rejected() {
		s.logger.Printf("duel %s: %s rejected: %s", sess.id, action.Kind, result.Rejection.Code)
		span.SetAttributes(attribute.String("duel.rejection", string(result.Rejection.Code)))
		return Duel{}, apperrors.Rejected(string(result.Rejection.Code), result.Rejection.Message)
	}

	if result.State.Status.Terminal() {
		if err := s.finish(ctx, sess); err != nil {
			return Duel{}, err
		}
		return sess.view(), nil
	}
	if s.delay == 0 {
		return sess.view(), nil
	}
	round := sess.state.Round
	s.afterFunc(s.delay, func() { s.resolveScheduled(sess, round) })
	return sess.view(), nil
}

// ResolveOpponent plays a pending opponent turn immediately.
func (s *Service) ResolveOpponent(ctx context.Context, duelID string) (Duel, error) {
	ctx, span := s.tracer.Start(ctx, "duel.ResolveOpponent", trace.WithAttributes(attribute.String("duel.id", duelID)))
	defer span.End()

	sess, err := s.session(duelID)
	if err != nil {
		return Duel{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.unsettled() {
		if err := s.finish(ctx, sess); err != nil {
			return Duel{}, err
		}
		return sess.view(), nil
	}
	if err := s.resolveLocked(ctx, sess); err != nil {
		return Duel{}, err
	}
	return sess.view(), nil
}

// GetDuel returns the current view of a duel. A finished duel whose record
// could not be stored is retried first.
func (s *Service) GetDuel(ctx context.Context, duelID string) (Duel, error) {
	sess, err := s.session(duelID)
	if err != nil {
		return Duel{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.unsettled() {
		if err := s.finish(ctx, sess); err != nil {
			s.logger.Printf("duel %s: settle: %v", sess.id, err)
		}
	}
	return sess.view(), nil
}

// ListSpells returns the spell catalog in load order.
func (s *Service) ListSpells(context.Context) ([]spell.Spell, error) {
	return s.engine.Catalog().All(), nil
}

// resolveScheduled plays the opponent reply to the turn taken in round. A
// caller may have resolved that turn already and moved on.
func (s *Service) resolveScheduled(sess *session, round int) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Phase != combat.PhaseProcessingOpponentTurn || sess.state.Round != round {
		return
	}
	if err := s.resolveLocked(context.Background(), sess); err != nil {
		s.logger.Printf("duel %s: scheduled opponent turn: %v", sess.id, err)
	}
}

func (s *Service) resolveLocked(ctx context.Context, sess *session) error {
	result := s.engine.ResolveOpponent(sess.state)
	sess.state = result.State
	if result.Rejected() {
		return apperrors.Rejected(string(result.Rejection.Code), result.Rejection.Message)
	}
	sess.events = append(sess.events, result.Events...)
	if result.State.Status.Terminal() {
		return s.finish(ctx, sess)
	}
	return nil
}

func (s *Service) session(duelID string) (*session, error) {
	duelID = strings.TrimSpace(duelID)
	if duelID == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput, "duel id is required", map[string]string{"Detail": "duel id is required"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[duelID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeDuelNotFound, fmt.Sprintf("duel %s not found", duelID), map[string]string{"DuelID": duelID})
	}
	sess.lastActive = s.clock().UTC()
	return sess, nil
}

// evictLocked drops settled duels past the retention window and any duel idle
// past the idle timeout. Sessions busy with a request are left alone. The
// caller holds s.mu.
func (s *Service) evictLocked(now time.Time) {
	for duelID, sess := range s.sessions {
		idle := now.Sub(sess.lastActive)
		if idle < s.retention {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		settled := sess.settled && sess.pending == nil
		unsettled := sess.unsettled()
		sess.mu.Unlock()

		switch {
		case settled:
			delete(s.sessions, duelID)
		case idle >= s.idleTimeout:
			if unsettled {
				s.logger.Printf("duel %s: evicted before its record was stored", duelID)
			}
			delete(s.sessions, duelID)
		}
	}
}

// lockWizard serializes profile updates for one wizard and returns the unlock.
func (s *Service) lockWizard(wizardID string) func() {
	s.wizardMu.Lock()
	lock, ok := s.wizardLocks[wizardID]
	if !ok {
		lock = &wizardLock{}
		s.wizardLocks[wizardID] = lock
	}
	lock.refs++
	s.wizardMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.wizardMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.wizardLocks, wizardID)
		}
		s.wizardMu.Unlock()
	}
}

func (s *Service) buildSetup(req StartRequest, seed int64, wizard *storage.Wizard) (engine.Setup, error) {
	player := req.Player
	if wizard != nil {
		if len(player.Spells) == 0 {
			player.Spells = equippedDeck(*wizard)
		}
		if locked := lockedSpells(player.Spells, wizard.Spells); len(locked) > 0 {
			return engine.Setup{}, setupError(fmt.Errorf("wizard %s has not unlocked %s", wizard.ID, strings.Join(locked, ", ")))
		}
		if strings.TrimSpace(player.Name) == "" {
			player.Name = wizard.Name
		}
	}
	applyCombatantDefaults(&player)

	enemy := req.Enemy
	applyCombatantDefaults(&enemy)
	if enemy.AILevel == 0 {
		enemy.AILevel = 1
	}
	if len(enemy.Spells) == 0 {
		spells, err := policy.GenerateOpponent(s.engine.Catalog(), enemy.AILevel, defaultOpponentDeckSize, random.Derive(seed, opponentDeckCursor))
		if err != nil {
			return engine.Setup{}, setupError(err)
		}
		enemy.Spells = spells
	}

	setup := engine.Setup{
		Player:     player,
		Enemy:      enemy,
		Difficulty: combat.Difficulty(strings.TrimSpace(req.Difficulty)),
		Seed:       seed,
		Locale:     req.Locale,
	}
	if wizard != nil {
		setup.KnownSpells = slices.Clone(wizard.Spells)
	}
	return setup, nil
}

// equippedDeck returns the wizard's deck. Profiles saved before decks existed
// play with every unlocked spell.
func equippedDeck(wizard storage.Wizard) []string {
	if len(wizard.Deck) > 0 {
		return slices.Clone(wizard.Deck)
	}
	return slices.Clone(wizard.Spells)
}

// lockedSpells lists the spells of deck missing from unlocked, in deck order.
func lockedSpells(deck, unlocked []string) []string {
	var locked []string
	for _, id := range deck {
		if !slices.Contains(unlocked, id) && !slices.Contains(locked, id) {
			locked = append(locked, id)
		}
	}
	return locked
}

func applyCombatantDefaults(seed *engine.CombatantSeed) {
	if seed.MaxHealth == 0 {
		seed.MaxHealth = defaultMaxHealth
	}
	if seed.MaxMana == 0 {
		seed.MaxMana = defaultMaxMana
	}
	if seed.ManaRegen == 0 {
		seed.ManaRegen = defaultManaRegen
	}
}

func setupError(err error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeDuelSetupInvalid,
		Message:  err.Error(),
		Metadata: map[string]string{"Detail": err.Error()},
		Cause:    err,
	}
}

func (sess *session) view() Duel {
	return Duel{
		ID:           sess.id,
		WizardID:     sess.wizardID,
		SeedSource:   sess.seedSource,
		RollMode:     sess.rollMode,
		State:        sess.state.Clone(),
		Events:       event.Wrap(sess.events),
		SpellOffer:   slices.Clone(sess.offer),
		RecordID:     sess.recordID,
		Achievements: slices.Clone(sess.achievements),
		LeveledUp:    sess.leveledUp,
		StartedAt:    sess.startedAt,
	}
}

// unsettled reports a finished duel whose settlement failed and must be
// retried. A pending spell choice settles through ChooseSpell instead.
func (sess *session) unsettled() bool {
	return sess.state.Status.Terminal() && !sess.settled && sess.pending == nil
}

var _ API = (*Service)(nil)
