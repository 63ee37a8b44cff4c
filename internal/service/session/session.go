package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/iamasit07/four-in-a-row-bot/internal/protocol"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotReady    = errors.New("bot id and field must be set before a move")
	ErrUnsupported = errors.New("unsupported setting")
)

// State is everything a game needs between protocol lines. It is stored as
// JSON when games are served over HTTP.
type State struct {
	BotID         int      `json:"botId"`
	BotName       string   `json:"botName,omitempty"`
	PlayerNames   []string `json:"playerNames,omitempty"`
	Round         int      `json:"round"`
	Field         [][]int  `json:"field,omitempty"`
	TimebankMS    int      `json:"timebankMs,omitempty"`
	TimePerMoveMS int      `json:"timePerMoveMs,omitempty"`
}

// Reply is the result of one handled line. Line is empty when nothing has
// to be written back; Move is set only for actions.
type Reply struct {
	Line string
	Move *bot.Move
}

// Session drives one engine from protocol lines.
type Session struct {
	state       State
	engine      *bot.Engine
	moveTimeout time.Duration
}

// New starts a session from a saved state. moveTimeout caps each search;
// zero means no cap beyond the protocol timebank.
func New(state State, engine *bot.Engine, moveTimeout time.Duration) *Session {
	engine.UpdateRound(state.Round)
	return &Session{state: state, engine: engine, moveTimeout: moveTimeout}
}

func (s *Session) State() State {
	return s.state
}

// Handle applies one protocol line. Lines the bot does not care about are
// logged and skipped.
func (s *Session) Handle(ctx context.Context, line string) (Reply, error) {
	if strings.TrimSpace(line) == "" {
		return Reply{}, nil
	}

	cmd, err := protocol.Parse(line)
	if errors.Is(err, protocol.ErrUnknown) {
		log.Debug().Str("line", line).Msg("ignoring command")
		return Reply{}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	return s.Apply(ctx, cmd)
}

func (s *Session) Apply(ctx context.Context, cmd protocol.Command) (Reply, error) {
	switch cmd.Kind {
	case protocol.KindSettings:
		return Reply{}, s.applySetting(cmd.Key, cmd.Value)

	case protocol.KindRound:
		s.state.Round = cmd.Round
		s.engine.UpdateRound(cmd.Round)
		return Reply{}, nil

	case protocol.KindField:
		if _, err := domain.FromGrid(cmd.Field, 1); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", protocol.ErrMalformed, err)
		}
		s.state.Field = cmd.Field
		return Reply{}, nil

	case protocol.KindAction:
		move, err := s.Move(ctx, cmd.TimeMS)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Line: protocol.FormatMove(move.Column), Move: &move}, nil
	}
	return Reply{}, fmt.Errorf("%w: kind %v", protocol.ErrUnknown, cmd.Kind)
}

func (s *Session) applySetting(key, value string) error {
	switch key {
	case "your_botid":
		id, err := strconv.Atoi(value)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: bot id %q", protocol.ErrMalformed, value)
		}
		s.state.BotID = id
	case "your_bot":
		s.state.BotName = value
	case "player_names":
		s.state.PlayerNames = strings.Split(value, ",")
	case "timebank":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: timebank %q", protocol.ErrMalformed, value)
		}
		s.state.TimebankMS = ms
	case "time_per_move":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: time_per_move %q", protocol.ErrMalformed, value)
		}
		s.state.TimePerMoveMS = ms
	case "field_columns", "field_rows":
		want := domain.Columns
		if key == "field_rows" {
			want = domain.Rows
		}
		if n, err := strconv.Atoi(value); err != nil || n != want {
			return fmt.Errorf("%w: %s must be %d, got %q", ErrUnsupported, key, want, value)
		}
	default:
		log.Debug().Str("key", key).Str("value", value).Msg("ignoring setting")
	}
	return nil
}

// Move searches the current field. timebankMS is the time left as sent with
// the action, 0 when unknown.
func (s *Session) Move(ctx context.Context, timebankMS int) (bot.Move, error) {
	if s.state.BotID == 0 || s.state.Field == nil {
		return bot.Move{}, ErrNotReady
	}
	board, err := domain.FromGrid(s.state.Field, s.state.BotID)
	if err != nil {
		return bot.Move{}, fmt.Errorf("%w: %v", protocol.ErrMalformed, err)
	}

	if budget := s.budget(timebankMS); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	move, err := s.engine.NextMove(ctx, board)
	if err != nil {
		return bot.Move{}, err
	}
	log.Info().
		Int("round", s.state.Round).
		Int("column", move.Column).
		Int("score", move.Score).
		Int("depth", move.Depth).
		Bool("fallback", move.Fallback).
		Dur("elapsed", move.Elapsed).
		Msg("move")
	return move, nil
}

// budget is the smaller of the configured cap and the time the protocol
// says is left.
func (s *Session) budget(timebankMS int) time.Duration {
	budget := s.moveTimeout
	if timebankMS > 0 {
		bank := time.Duration(timebankMS) * time.Millisecond
		if budget == 0 || bank < budget {
			budget = bank
		}
	}
	return budget
}
