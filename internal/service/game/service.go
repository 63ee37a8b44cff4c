package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	"github.com/rs/zerolog/log"
)

const historyLimit = 64

var ErrHistoryDisabled = errors.New("decision history is not configured")

type DecisionRepository interface {
	SaveDecision(ctx context.Context, d domain.Decision) error
	GetDecisionsByGame(ctx context.Context, gameID string, limit int) ([]domain.Decision, error)
}

// MoveRequest is a stateless move query: the whole field plus context.
type MoveRequest struct {
	Field [][]int `json:"field" binding:"required"`
	BotID int     `json:"botId" binding:"required"`
	Round int     `json:"round"`
}

// Service hosts games whose state lives in a session.Store, so any replica
// can serve the next line of a game.
type Service struct {
	store       *session.Store
	decisions   DecisionRepository // nil disables history
	newEngine   func() *bot.Engine
	moveTimeout time.Duration

	pending sync.WaitGroup
}

func NewService(store *session.Store, decisions DecisionRepository, newEngine func() *bot.Engine, moveTimeout time.Duration) *Service {
	return &Service{
		store:       store,
		decisions:   decisions,
		newEngine:   newEngine,
		moveTimeout: moveTimeout,
	}
}

// NewSession starts a session that is not backed by the store, for
// connection-scoped games such as a websocket.
func (s *Service) NewSession() *session.Session {
	return session.New(session.State{}, s.newEngine(), s.moveTimeout)
}

func (s *Service) CreateGame(ctx context.Context) (string, error) {
	return s.store.Create(ctx, session.State{})
}

func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	unlock := s.store.Lock(gameID)
	defer unlock()

	if _, err := s.store.Load(ctx, gameID); err != nil {
		return err
	}
	return s.store.Delete(ctx, gameID)
}

// HandleLine runs one protocol line against a stored game.
func (s *Service) HandleLine(ctx context.Context, gameID, line string) (session.Reply, error) {
	unlock := s.store.Lock(gameID)
	defer unlock()

	state, err := s.store.Load(ctx, gameID)
	if err != nil {
		return session.Reply{}, err
	}

	sess := session.New(state, s.newEngine(), s.moveTimeout)
	reply, err := sess.Handle(ctx, line)
	if err != nil {
		return session.Reply{}, err
	}
	if err := s.store.Save(ctx, gameID, sess.State()); err != nil {
		return session.Reply{}, err
	}

	if reply.Move != nil {
		s.RecordDecision(gameID, sess.State(), *reply.Move)
	}
	return reply, nil
}

// Move answers a full-field query and remembers the field and round on the
// stored game.
func (s *Service) Move(ctx context.Context, gameID string, req MoveRequest) (bot.Move, error) {
	unlock := s.store.Lock(gameID)
	defer unlock()

	state, err := s.store.Load(ctx, gameID)
	if err != nil {
		return bot.Move{}, err
	}
	if _, err := domain.FromGrid(req.Field, req.BotID); err != nil {
		return bot.Move{}, err
	}
	state.BotID = req.BotID
	state.Field = req.Field
	state.Round = req.Round

	sess := session.New(state, s.newEngine(), s.moveTimeout)
	move, err := sess.Move(ctx, 0)
	if err != nil {
		return bot.Move{}, err
	}
	if err := s.store.Save(ctx, gameID, sess.State()); err != nil {
		return bot.Move{}, err
	}

	s.RecordDecision(gameID, sess.State(), move)
	return move, nil
}

func (s *Service) Decisions(ctx context.Context, gameID string) ([]domain.Decision, error) {
	if s.decisions == nil {
		return nil, ErrHistoryDisabled
	}
	decisions, err := s.decisions.GetDecisionsByGame(ctx, gameID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions for %s: %w", gameID, err)
	}
	return decisions, nil
}

// RecordDecision saves the move in the background so the reply is not held
// up by the database.
func (s *Service) RecordDecision(gameID string, state session.State, move bot.Move) {
	if s.decisions == nil {
		return
	}

	d := domain.Decision{
		GameID:   gameID,
		Round:    state.Round,
		BotID:    state.BotID,
		Column:   move.Column,
		Score:    move.Score,
		Depth:    move.Depth,
		Nodes:    move.Nodes,
		Fallback: move.Fallback,
		Elapsed:  move.Elapsed,
		Field:    state.Field,
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.decisions.SaveDecision(ctx, d); err != nil {
			log.Error().Err(err).Str("game", gameID).Int("round", d.Round).Msg("[GAME] failed to save decision")
		}
	}()
}

// Wait blocks until background saves have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}
