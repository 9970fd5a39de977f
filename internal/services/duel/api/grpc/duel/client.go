package duel

import (
	"context"
	"errors"

	duelv1 "github.com/louisbranch/spellduel/api/gen/go/duel/v1"
	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/metadata"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote DuelService. It satisfies app.API, so adapters can
// swap the in-process service for a remote one.
type Client struct {
	rpc    duelv1.DuelServiceClient
	locale string
}

type unaryCall func(duelv1.DuelServiceClient, context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

// NewClient wraps an established connection. Locale selects the language of
// error messages returned by the server.
func NewClient(conn grpc.ClientConnInterface, locale string) *Client {
	if conn == nil {
		return &Client{locale: locale}
	}
	return &Client{rpc: duelv1.NewDuelServiceClient(conn), locale: locale}
}

// StartDuel creates a remote duel.
func (c *Client) StartDuel(ctx context.Context, req app.StartRequest) (app.Duel, error) {
	var out app.Duel
	err := c.call(ctx, duelv1.DuelServiceClient.StartDuel, fromStartRequest(req), &out)
	return out, err
}

// Act applies a player action remotely.
func (c *Client) Act(ctx context.Context, duelID string, action engine.Action) (app.Duel, error) {
	var out app.Duel
	err := c.call(ctx, duelv1.DuelServiceClient.Act, actRequest{DuelID: duelID, Action: action}, &out)
	return out, err
}

// ResolveOpponent plays a pending opponent turn remotely.
func (c *Client) ResolveOpponent(ctx context.Context, duelID string) (app.Duel, error) {
	var out app.Duel
	err := c.call(ctx, duelv1.DuelServiceClient.ResolveOpponent, duelRequest{DuelID: duelID}, &out)
	return out, err
}

// GetDuel fetches a remote duel view.
func (c *Client) GetDuel(ctx context.Context, duelID string) (app.Duel, error) {
	var out app.Duel
	err := c.call(ctx, duelv1.DuelServiceClient.GetDuel, duelRequest{DuelID: duelID}, &out)
	return out, err
}

// ChooseSpell completes a remote level-up offer.
func (c *Client) ChooseSpell(ctx context.Context, duelID, spellID string) (app.Duel, error) {
	var out app.Duel
	err := c.call(ctx, duelv1.DuelServiceClient.ChooseSpell, chooseSpellRequest{DuelID: duelID, SpellID: spellID}, &out)
	return out, err
}

// ListBattleRecords lists remote battle records.
func (c *Client) ListBattleRecords(ctx context.Context, req app.ListRecordsRequest) (app.RecordPage, error) {
	var out app.RecordPage
	err := c.call(ctx, duelv1.DuelServiceClient.ListBattleRecords, req, &out)
	return out, err
}

// ListSpells lists the remote spell catalog.
func (c *Client) ListSpells(ctx context.Context) ([]spell.Spell, error) {
	var out listSpellsResponse
	if err := c.call(ctx, duelv1.DuelServiceClient.ListSpells, struct{}{}, &out); err != nil {
		return nil, err
	}
	return out.Spells, nil
}

// GetWizard fetches a remote wizard profile.
func (c *Client) GetWizard(ctx context.Context, wizardID string) (storage.Wizard, error) {
	var out storage.Wizard
	err := c.call(ctx, duelv1.DuelServiceClient.GetWizard, wizardRequest{WizardID: wizardID}, &out)
	return out, err
}

// GetBattleRecord fetches one remote battle record.
func (c *Client) GetBattleRecord(ctx context.Context, recordID string) (outcome.BattleRecord, error) {
	var out outcome.BattleRecord
	err := c.call(ctx, duelv1.DuelServiceClient.GetBattleRecord, recordRequest{RecordID: recordID}, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method unaryCall, req, out any) error {
	if c == nil || c.rpc == nil {
		return errors.New("duel client is not configured")
	}
	in, err := encode(req)
	if err != nil {
		return err
	}
	ctx = metadata.WithOutgoing(ctx, map[string]string{metadata.LocaleHeader: c.locale})
	resp, err := method(c.rpc, ctx, in)
	if err != nil {
		return apperrors.FromGRPCStatus(err)
	}
	return decode(resp, out)
}

var _ app.API = (*Client)(nil)
