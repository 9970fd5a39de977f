// Package duel exposes the duel app service over gRPC.
package duel

import (
	"context"

	duelv1 "github.com/louisbranch/spellduel/api/gen/go/duel/v1"
	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/metadata"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name, also used for health
// checks.
const ServiceName = "spellduel.duel.v1.DuelService"

// Service implements duelv1.DuelServiceServer over an app.API.
type Service struct {
	duelv1.UnimplementedDuelServiceServer
	api app.API
}

// NewService creates a DuelService backed by api.
func NewService(api app.API) *Service {
	return &Service{api: api}
}

// StartDuel creates a duel session.
func (s *Service) StartDuel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var wire startDuelRequest
	if err := decode(in, &wire); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	req, err := toStartRequest(wire)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	duel, err := s.api.StartDuel(ctx, req)
	return respond(ctx, duel, err)
}

// Act applies a player action.
func (s *Service) Act(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req actRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	duel, err := s.api.Act(ctx, req.DuelID, req.Action)
	return respond(ctx, duel, err)
}

// ResolveOpponent plays a pending opponent turn.
func (s *Service) ResolveOpponent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req duelRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	duel, err := s.api.ResolveOpponent(ctx, req.DuelID)
	return respond(ctx, duel, err)
}

// GetDuel returns a duel view.
func (s *Service) GetDuel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req duelRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	duel, err := s.api.GetDuel(ctx, req.DuelID)
	return respond(ctx, duel, err)
}

// ChooseSpell completes a level-up spell offer.
func (s *Service) ChooseSpell(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req chooseSpellRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	duel, err := s.api.ChooseSpell(ctx, req.DuelID, req.SpellID)
	return respond(ctx, duel, err)
}

// ListBattleRecords returns a page of stored duel records.
func (s *Service) ListBattleRecords(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req app.ListRecordsRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	page, err := s.api.ListBattleRecords(ctx, req)
	return respond(ctx, page, err)
}

// GetBattleRecord returns one stored battle record.
func (s *Service) GetBattleRecord(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req recordRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	record, err := s.api.GetBattleRecord(ctx, req.RecordID)
	return respond(ctx, record, err)
}

// ListSpells returns the spell catalog.
func (s *Service) ListSpells(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	spells, err := s.api.ListSpells(ctx)
	return respond(ctx, listSpellsResponse{Spells: spells}, err)
}

// GetWizard returns a wizard profile.
func (s *Service) GetWizard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in); err != nil {
		return nil, err
	}
	var req wizardRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	wizard, err := s.api.GetWizard(ctx, req.WizardID)
	return respond(ctx, wizard, err)
}

func (s *Service) ready(in *structpb.Struct) error {
	if in == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	if s == nil || s.api == nil {
		return status.Error(codes.Internal, "duel service is not configured")
	}
	return nil
}

func respond(ctx context.Context, v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, apperrors.HandleError(err, metadata.LocaleFromContext(ctx))
	}
	out, err := encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

var _ duelv1.DuelServiceServer = (*Service)(nil)
