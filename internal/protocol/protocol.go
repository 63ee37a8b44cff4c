// Package protocol parses the line-oriented engine protocol:
//
//	settings your_botid 1
//	update game round 4
//	update game field 0,0,0,0,0,0,0;...;0,0,1,2,0,0,0
//	action move 10000
//
// and formats the reply "place_disc <column>".
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformed = errors.New("malformed command")
	ErrUnknown   = errors.New("unknown command")
)

type Kind int

const (
	KindSettings Kind = iota + 1
	KindRound
	KindField
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindSettings:
		return "settings"
	case KindRound:
		return "round"
	case KindField:
		return "field"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// Command is one parsed protocol line. Only the fields for its Kind are set.
type Command struct {
	Kind Kind

	// settings
	Key   string
	Value string

	Round int
	Field [][]int

	// action: remaining timebank in milliseconds, 0 when absent
	TimeMS int
}

// Parse reads one non-empty line. Lines the bot has no use for, such as
// other players' moves, return ErrUnknown.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	switch parts[0] {
	case "settings":
		if len(parts) != 3 {
			return Command{}, fmt.Errorf("%w: settings needs a key and a value: %q", ErrMalformed, line)
		}
		return Command{Kind: KindSettings, Key: parts[1], Value: parts[2]}, nil

	case "update":
		if len(parts) != 4 {
			return Command{}, fmt.Errorf("%w: update needs 3 arguments: %q", ErrMalformed, line)
		}
		if parts[1] != "game" {
			return Command{}, fmt.Errorf("%w: update %s", ErrUnknown, parts[1])
		}
		switch parts[2] {
		case "round":
			round, err := strconv.Atoi(parts[3])
			if err != nil || round < 0 {
				return Command{}, fmt.Errorf("%w: round %q", ErrMalformed, parts[3])
			}
			return Command{Kind: KindRound, Round: round}, nil
		case "field":
			field, err := ParseField(parts[3])
			if err != nil {
				return Command{}, err
			}
			return Command{Kind: KindField, Field: field}, nil
		}
		return Command{}, fmt.Errorf("%w: update game %s", ErrUnknown, parts[2])

	case "action":
		if len(parts) < 2 || parts[1] != "move" {
			return Command{}, fmt.Errorf("%w: %q", ErrUnknown, line)
		}
		cmd := Command{Kind: KindAction}
		if len(parts) > 2 {
			ms, err := strconv.Atoi(parts[2])
			if err != nil || ms < 0 {
				return Command{}, fmt.Errorf("%w: timebank %q", ErrMalformed, parts[2])
			}
			cmd.TimeMS = ms
		}
		return cmd, nil
	}

	return Command{}, fmt.Errorf("%w: %s", ErrUnknown, parts[0])
}

// ParseField reads rows separated by ';' and cells separated by ','. Every
// row must have the same number of cells.
func ParseField(s string) ([][]int, error) {
	rows := strings.Split(s, ";")
	field := make([][]int, 0, len(rows))
	for r, row := range rows {
		cells := strings.Split(row, ",")
		if r > 0 && len(cells) != len(field[0]) {
			return nil, fmt.Errorf("%w: field is not rectangular, row %d has %d cells, row 0 has %d",
				ErrMalformed, r, len(cells), len(field[0]))
		}
		values := make([]int, len(cells))
		for c, cell := range cells {
			v, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("%w: field cell %d,%d: %q", ErrMalformed, r, c, cell)
			}
			values[c] = v
		}
		field = append(field, values)
	}
	return field, nil
}

// FormatField is the inverse of ParseField.
func FormatField(field [][]int) string {
	rows := make([]string, len(field))
	for r, row := range field {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = strconv.Itoa(v)
		}
		rows[r] = strings.Join(cells, ",")
	}
	return strings.Join(rows, ";")
}

func FormatMove(column int) string {
	return fmt.Sprintf("place_disc %d", column)
}
