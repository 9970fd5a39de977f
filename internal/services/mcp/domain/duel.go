package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CombatantInput describes one side of a new duel.
type CombatantInput struct {
	Name      string   `json:"name,omitempty" jsonschema:"display name"`
	Spells    []string `json:"spells,omitempty" jsonschema:"spell ids forming the deck; an empty enemy deck is generated"`
	MaxHealth int      `json:"max_health,omitempty" jsonschema:"maximum health (default 100)"`
	MaxMana   int      `json:"max_mana,omitempty" jsonschema:"maximum mana (default 100)"`
	ManaRegen int      `json:"mana_regen,omitempty" jsonschema:"mana restored at each round end (default 10)"`
	AILevel   int      `json:"ai_level,omitempty" jsonschema:"opponent AI level, 1 to 5 (enemy only)"`
}

// DuelStartInput represents the MCP tool input for starting a duel.
type DuelStartInput struct {
	WizardID   string         `json:"wizard_id,omitempty" jsonschema:"optional wizard profile; its equipped deck is used when no player spells are given, and given spells must be unlocked"`
	Player     CombatantInput `json:"player,omitempty" jsonschema:"the player"`
	Enemy      CombatantInput `json:"enemy,omitempty" jsonschema:"the opponent"`
	Difficulty string         `json:"difficulty,omitempty" jsonschema:"easy, normal, hard or legendary (default normal)"`
	Locale     string         `json:"locale,omitempty" jsonschema:"battle log language, e.g. en-US or pt-BR"`
	Seed       *uint64        `json:"seed,omitempty" jsonschema:"optional seed; honored only when the server allows client seeds or for a replay"`
	Replay     bool           `json:"replay,omitempty" jsonschema:"replay a recorded seed; replays grant no rewards and store no record"`
}

// DuelStartTool defines the MCP tool schema for starting a duel.
func DuelStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_start",
		Description: "Starts a spell duel between the player and an AI opponent and deals the opening hands",
	}
}

// DuelStartHandler executes a duel start request.
func DuelStartHandler(api app.API) mcp.ToolHandlerFor[DuelStartInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelStartInput) (*mcp.CallToolResult, DuelResult, error) {
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, DuelResult{}, err
		}
		defer cancel()

		req := app.StartRequest{
			WizardID:   strings.TrimSpace(input.WizardID),
			Player:     combatantSeed(input.Player),
			Enemy:      combatantSeed(input.Enemy),
			Difficulty: input.Difficulty,
			Locale:     input.Locale,
			Seed:       input.Seed,
		}
		if input.Replay {
			req.RollMode = string(random.RollModeReplay)
		}
		duel, err := api.StartDuel(callCtx, req)
		if err != nil {
			return nil, DuelResult{}, fmt.Errorf("duel start failed: %w", err)
		}
		return nil, duelResultFromDuel(duel), nil
	}
}

func combatantSeed(input CombatantInput) engine.CombatantSeed {
	return engine.CombatantSeed{
		Name:      strings.TrimSpace(input.Name),
		Spells:    input.Spells,
		MaxHealth: input.MaxHealth,
		MaxMana:   input.MaxMana,
		ManaRegen: input.ManaRegen,
		AILevel:   input.AILevel,
	}
}

// DuelCastInput represents the MCP tool input for casting a spell.
type DuelCastInput struct {
	DuelID  string `json:"duel_id" jsonschema:"duel identifier"`
	SpellID string `json:"spell_id" jsonschema:"spell id from the player's hand"`
}

// DuelCastTool defines the MCP tool schema for casting a spell.
func DuelCastTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_cast",
		Description: "Casts a spell from the player's hand. The opponent answers before the result is returned unless the server delays its turn",
	}
}

// DuelCastHandler executes a cast action.
func DuelCastHandler(api app.API) mcp.ToolHandlerFor[DuelCastInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelCastInput) (*mcp.CallToolResult, DuelResult, error) {
		return act(ctx, api, input.DuelID, engine.Cast(strings.TrimSpace(input.SpellID)), "duel cast")
	}
}

// DuelPunchInput represents the MCP tool input for a Mystic Punch.
type DuelPunchInput struct {
	DuelID    string `json:"duel_id" jsonschema:"duel identifier"`
	DiscardID string `json:"discard_id" jsonschema:"spell id from the player's hand to discard as payment"`
}

// DuelPunchTool defines the MCP tool schema for a Mystic Punch.
func DuelPunchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_punch",
		Description: "Throws a zero-mana Mystic Punch, discarding one card from the player's hand",
	}
}

// DuelPunchHandler executes a punch action.
func DuelPunchHandler(api app.API) mcp.ToolHandlerFor[DuelPunchInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelPunchInput) (*mcp.CallToolResult, DuelResult, error) {
		return act(ctx, api, input.DuelID, engine.Punch(strings.TrimSpace(input.DiscardID)), "duel punch")
	}
}

// DuelSkipInput represents the MCP tool input for skipping a turn.
type DuelSkipInput struct {
	DuelID string `json:"duel_id" jsonschema:"duel identifier"`
}

// DuelSkipTool defines the MCP tool schema for skipping a turn.
func DuelSkipTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_skip",
		Description: "Skips the player's turn to restore bonus mana",
	}
}

// DuelSkipHandler executes a skip action.
func DuelSkipHandler(api app.API) mcp.ToolHandlerFor[DuelSkipInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelSkipInput) (*mcp.CallToolResult, DuelResult, error) {
		return act(ctx, api, input.DuelID, engine.Skip(), "duel skip")
	}
}

func act(ctx context.Context, api app.API, duelID string, action engine.Action, op string) (*mcp.CallToolResult, DuelResult, error) {
	duelID = strings.TrimSpace(duelID)
	if duelID == "" {
		return nil, DuelResult{}, fmt.Errorf("duel_id is required")
	}
	callCtx, cancel, err := newCallContext(ctx)
	if err != nil {
		return nil, DuelResult{}, err
	}
	defer cancel()

	duel, err := api.Act(callCtx, duelID, action)
	if err != nil {
		return nil, DuelResult{}, fmt.Errorf("%s failed: %w", op, err)
	}
	return nil, duelResultFromDuel(duel), nil
}

// DuelStateInput represents the MCP tool input for reading a duel.
type DuelStateInput struct {
	DuelID string `json:"duel_id" jsonschema:"duel identifier"`
	// ResolveOpponent plays a delayed opponent turn instead of waiting for it.
	ResolveOpponent bool `json:"resolve_opponent,omitempty" jsonschema:"play the pending opponent turn now, if one is scheduled"`
}

// DuelStateTool defines the MCP tool schema for reading a duel.
func DuelStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_state",
		Description: "Returns the current state of a duel, optionally resolving a pending opponent turn",
	}
}

// DuelStateHandler returns a duel view.
func DuelStateHandler(api app.API) mcp.ToolHandlerFor[DuelStateInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelStateInput) (*mcp.CallToolResult, DuelResult, error) {
		duelID := strings.TrimSpace(input.DuelID)
		if duelID == "" {
			return nil, DuelResult{}, fmt.Errorf("duel_id is required")
		}
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, DuelResult{}, err
		}
		defer cancel()

		duel, err := api.GetDuel(callCtx, duelID)
		if err != nil {
			return nil, DuelResult{}, fmt.Errorf("duel state failed: %w", err)
		}
		if input.ResolveOpponent && duel.State.Phase == combat.PhaseProcessingOpponentTurn {
			duel, err = api.ResolveOpponent(callCtx, duelID)
			if err != nil {
				return nil, DuelResult{}, fmt.Errorf("resolve opponent failed: %w", err)
			}
		}
		return nil, duelResultFromDuel(duel), nil
	}
}

// DuelChooseSpellInput represents the MCP tool input for a level-up pick.
type DuelChooseSpellInput struct {
	DuelID  string `json:"duel_id" jsonschema:"duel identifier"`
	SpellID string `json:"spell_id" jsonschema:"spell id from the duel's spell_offer"`
}

// DuelChooseSpellTool defines the MCP tool schema for a level-up pick.
func DuelChooseSpellTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duel_choose_spell",
		Description: "Picks one spell from the level-up offer of a finished duel and stores the battle record",
	}
}

// DuelChooseSpellHandler completes a level-up offer.
func DuelChooseSpellHandler(api app.API) mcp.ToolHandlerFor[DuelChooseSpellInput, DuelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DuelChooseSpellInput) (*mcp.CallToolResult, DuelResult, error) {
		duelID := strings.TrimSpace(input.DuelID)
		if duelID == "" {
			return nil, DuelResult{}, fmt.Errorf("duel_id is required")
		}
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, DuelResult{}, err
		}
		defer cancel()

		duel, err := api.ChooseSpell(callCtx, duelID, strings.TrimSpace(input.SpellID))
		if err != nil {
			return nil, DuelResult{}, fmt.Errorf("duel choose spell failed: %w", err)
		}
		return nil, duelResultFromDuel(duel), nil
	}
}
