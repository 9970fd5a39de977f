package duel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// startDuelRequest is the wire form of app.StartRequest. The seed travels as
// a decimal string so it survives the double-precision struct encoding.
type startDuelRequest struct {
	WizardID   string               `json:"wizard_id,omitempty"`
	Player     engine.CombatantSeed `json:"player"`
	Enemy      engine.CombatantSeed `json:"enemy"`
	Difficulty string               `json:"difficulty,omitempty"`
	Locale     string               `json:"locale,omitempty"`
	Seed       string               `json:"seed,omitempty"`
	RollMode   string               `json:"roll_mode,omitempty"`
}

type duelRequest struct {
	DuelID string `json:"duel_id"`
}

type actRequest struct {
	DuelID string        `json:"duel_id"`
	Action engine.Action `json:"action"`
}

type chooseSpellRequest struct {
	DuelID  string `json:"duel_id"`
	SpellID string `json:"spell_id"`
}

type recordRequest struct {
	RecordID string `json:"record_id"`
}

type wizardRequest struct {
	WizardID string `json:"wizard_id"`
}

type listSpellsResponse struct {
	Spells []spell.Spell `json:"spells"`
}

func toStartRequest(in startDuelRequest) (app.StartRequest, error) {
	req := app.StartRequest{
		WizardID:   in.WizardID,
		Player:     in.Player,
		Enemy:      in.Enemy,
		Difficulty: in.Difficulty,
		Locale:     in.Locale,
		RollMode:   in.RollMode,
	}
	if seed := strings.TrimSpace(in.Seed); seed != "" {
		value, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return app.StartRequest{}, fmt.Errorf("seed %q is not an unsigned integer", in.Seed)
		}
		req.Seed = &value
	}
	return req, nil
}

func fromStartRequest(req app.StartRequest) startDuelRequest {
	out := startDuelRequest{
		WizardID:   req.WizardID,
		Player:     req.Player,
		Enemy:      req.Enemy,
		Difficulty: req.Difficulty,
		Locale:     req.Locale,
		RollMode:   req.RollMode,
	}
	if req.Seed != nil {
		out.Seed = strconv.FormatUint(*req.Seed, 10)
	}
	return out
}

// encode converts a JSON-tagged value to a struct document.
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return out, nil
}

// decode fills v from a struct document.
func decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
