package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/iamasit07/four-in-a-row-bot/internal/protocol"
	"github.com/iamasit07/four-in-a-row-bot/internal/repository/memory"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	m.Run()
}

type fakeDecisions struct {
	mu    sync.Mutex
	saved []domain.Decision
}

func (f *fakeDecisions) SaveDecision(ctx context.Context, d domain.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, d)
	return nil
}

func (f *fakeDecisions) GetDecisionsByGame(ctx context.Context, gameID string, limit int) ([]domain.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Decision
	for _, d := range f.saved {
		if d.GameID == gameID && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestService(decisions DecisionRepository) *Service {
	store := session.NewStore(memory.NewCache(), time.Hour)
	newEngine := func() *bot.Engine { return bot.New(bot.WithSeed(3)) }
	return NewService(store, decisions, newEngine, 0)
}

func emptyField() [][]int {
	field := make([][]int, domain.Rows)
	for r := range field {
		field[r] = make([]int, domain.Columns)
	}
	return field
}

func TestHandleLineKeepsStateBetweenCalls(t *testing.T) {
	ctx := context.Background()
	decisions := &fakeDecisions{}
	s := newTestService(decisions)

	id, err := s.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	lines := []string{
		"settings your_botid 1",
		"update game round 1",
		"update game field " + protocol.FormatField(emptyField()),
	}
	for _, line := range lines {
		reply, err := s.HandleLine(ctx, id, line)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		if reply.Line != "" {
			t.Fatalf("%q: unexpected reply %q", line, reply.Line)
		}
	}

	reply, err := s.HandleLine(ctx, id, "action move 10000")
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	if reply.Line != "place_disc 3" {
		t.Fatalf("expected place_disc 3, got %q", reply.Line)
	}

	s.Wait()
	got, err := s.Decisions(ctx, id)
	if err != nil {
		t.Fatalf("decisions: %v", err)
	}
	if len(got) != 1 || got[0].Column != 3 || got[0].Round != 1 || got[0].BotID != 1 {
		t.Fatalf("unexpected decisions %+v", got)
	}
}

func TestHandleLineUnknownGame(t *testing.T) {
	s := newTestService(nil)
	if _, err := s.HandleLine(context.Background(), "missing", "settings your_botid 1"); !errors.Is(err, session.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestHandleLineRejectsWithoutSaving(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	id, _ := s.CreateGame(ctx)

	if _, err := s.HandleLine(ctx, id, "settings your_botid 2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.HandleLine(ctx, id, "settings your_botid nope"); !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	st, err := s.store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if st.BotID != 2 {
		t.Fatalf("bot id changed by a rejected line: %d", st.BotID)
	}
}

func TestMoveBlocksThreat(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	id, _ := s.CreateGame(ctx)

	field := emptyField()
	field[5][4] = 2
	field[4][4] = 2
	field[3][4] = 2
	field[5][0] = 1
	field[5][1] = 1

	move, err := s.Move(ctx, id, MoveRequest{Field: field, BotID: 1, Round: 5})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if move.Column != 4 {
		t.Fatalf("expected block in column 4, got %d", move.Column)
	}

	st, _ := s.store.Load(ctx, id)
	if st.Round != 5 || st.BotID != 1 || st.Field[3][4] != 2 {
		t.Fatalf("move request not stored: %+v", st)
	}
}

func TestMoveRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	id, _ := s.CreateGame(ctx)

	if _, err := s.Move(ctx, id, MoveRequest{Field: [][]int{{0}}, BotID: 1}); !errors.Is(err, domain.ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid, got %v", err)
	}

	full := emptyField()
	for r := range full {
		for c := range full[r] {
			full[r][c] = 1 + (r+c/2)%2
		}
	}
	if _, err := s.Move(ctx, id, MoveRequest{Field: full, BotID: 1}); !errors.Is(err, bot.ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestDeleteGame(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	id, _ := s.CreateGame(ctx)

	if err := s.DeleteGame(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteGame(ctx, id); !errors.Is(err, session.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound on second delete, got %v", err)
	}
}

func TestDecisionsDisabled(t *testing.T) {
	s := newTestService(nil)
	if _, err := s.Decisions(context.Background(), "x"); !errors.Is(err, ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}
}

func TestNewSessionIsIndependent(t *testing.T) {
	s := newTestService(nil)
	a, b := s.NewSession(), s.NewSession()
	if _, err := a.Handle(context.Background(), "settings your_botid 1"); err != nil {
		t.Fatal(err)
	}
	if b.State().BotID != 0 {
		t.Fatal("sessions share state")
	}
}

func TestDeleteRacingHandleLineStaysDeleted(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)

	for i := 0; i < 200; i++ {
		id, err := s.CreateGame(ctx)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.HandleLine(ctx, id, "settings your_botid 1")
			if err != nil && !errors.Is(err, session.ErrGameNotFound) {
				t.Errorf("handle: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := s.DeleteGame(ctx, id); err != nil {
				t.Errorf("delete: %v", err)
			}
		}()
		wg.Wait()

		if _, err := s.store.Load(ctx, id); !errors.Is(err, session.ErrGameNotFound) {
			t.Fatalf("game %s came back after delete: %v", id, err)
		}
	}
}
