package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/spellduel/internal/platform/grpc"
	duelservice "github.com/louisbranch/spellduel/internal/services/duel/api/grpc/duel"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestServerPersistsFinishedDuels(t *testing.T) {
	srv, err := New(Config{
		Addr:            "127.0.0.1:0",
		DBPath:          filepath.Join(t.TempDir(), "duel.db"),
		AllowClientSeed: true,
		Rules:           rules.Default(),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial duel server: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})
	healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := platformgrpc.WaitForHealth(healthCtx, conn, duelservice.ServiceName, nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}

	client := duelservice.NewClient(conn, "")
	seed := uint64(11)
	duel, err := client.StartDuel(context.Background(), app.StartRequest{
		Player:     engine.CombatantSeed{Name: "Aria", Spells: []string{"tempest"}},
		Enemy:      engine.CombatantSeed{Name: "Imp", Spells: []string{"spark"}, MaxHealth: 40, AILevel: 1},
		Difficulty: "hard",
		Seed:       &seed,
	})
	if err != nil {
		t.Fatalf("start duel: %v", err)
	}
	duel, err = client.Act(context.Background(), duel.ID, engine.Cast("tempest"))
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if duel.State.Status != combat.StatusPlayerWon || duel.RecordID == "" {
		t.Fatalf("status %s record %q, want stored victory", duel.State.Status, duel.RecordID)
	}

	page, err := client.ListBattleRecords(context.Background(), app.ListRecordsRequest{Filter: `difficulty = "hard"`})
	if err != nil {
		t.Fatalf("list battle records: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].ID != duel.RecordID {
		t.Fatalf("records = %+v, want the finished duel", page.Records)
	}
	if page.Records[0].Seed != 11 {
		t.Fatalf("record seed = %d, want 11", page.Records[0].Seed)
	}
}

func TestNewRejectsBadAddress(t *testing.T) {
	_, err := New(Config{Addr: "bad::addr::", DBPath: filepath.Join(t.TempDir(), "duel.db"), Rules: rules.Default()})
	if err == nil {
		t.Fatal("expected listen error")
	}
}
