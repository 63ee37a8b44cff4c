package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSchedule = errors.New("invalid depth schedule")

// Step switches the search to Depth from Round onward.
type Step struct {
	Round int
	Depth int
}

// DepthSchedule is a staircase from round number to search depth. Later
// rounds never search shallower, since fewer columns stay open.
type DepthSchedule []Step

var DefaultSchedule = DepthSchedule{
	{Round: 0, Depth: 5},
	{Round: 7, Depth: 7},
	{Round: 14, Depth: 9},
	{Round: 21, Depth: 11},
	{Round: 28, Depth: 13},
}

func NewDepthSchedule(steps ...Step) (DepthSchedule, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidSchedule)
	}
	if steps[0].Round != 0 {
		return nil, fmt.Errorf("%w: first step must start at round 0, got %d", ErrInvalidSchedule, steps[0].Round)
	}
	for i, s := range steps {
		if s.Depth < 1 {
			return nil, fmt.Errorf("%w: depth %d at round %d", ErrInvalidSchedule, s.Depth, s.Round)
		}
		if i == 0 {
			continue
		}
		prev := steps[i-1]
		if s.Round <= prev.Round {
			return nil, fmt.Errorf("%w: round %d does not follow %d", ErrInvalidSchedule, s.Round, prev.Round)
		}
		if s.Depth < prev.Depth {
			return nil, fmt.Errorf("%w: depth drops from %d to %d at round %d", ErrInvalidSchedule, prev.Depth, s.Depth, s.Round)
		}
	}

	out := make(DepthSchedule, len(steps))
	copy(out, steps)
	return out, nil
}

// ParseDepthSchedule reads "round:depth" pairs separated by commas, e.g.
// "0:5,7:7,14:9".
func ParseDepthSchedule(s string) (DepthSchedule, error) {
	var steps []Step
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roundStr, depthStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not round:depth", ErrInvalidSchedule, part)
		}
		round, err := strconv.Atoi(strings.TrimSpace(roundStr))
		if err != nil {
			return nil, fmt.Errorf("%w: round in %q: %v", ErrInvalidSchedule, part, err)
		}
		depth, err := strconv.Atoi(strings.TrimSpace(depthStr))
		if err != nil {
			return nil, fmt.Errorf("%w: depth in %q: %v", ErrInvalidSchedule, part, err)
		}
		steps = append(steps, Step{Round: round, Depth: depth})
	}
	return NewDepthSchedule(steps...)
}

// Depth returns the depth of the last step starting at or before round.
func (d DepthSchedule) Depth(round int) int {
	depth := d[0].Depth
	for _, s := range d {
		if s.Round > round {
			break
		}
		depth = s.Depth
	}
	return depth
}

func (d DepthSchedule) String() string {
	parts := make([]string, len(d))
	for i, s := range d {
		parts[i] = fmt.Sprintf("%d:%d", s.Round, s.Depth)
	}
	return strings.Join(parts, ",")
}
