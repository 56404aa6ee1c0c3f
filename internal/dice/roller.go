// Package dice provides the random roller backing the mechanics engine.
package dice

import (
	"strconv"
	"strings"
	"sync"

	rpgdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/lcampanari/gamebook-api/internal/errors"
)

// Roller produces individual die results. The mechanics engine never calls
// a random source directly, which keeps every test deterministic.
type Roller interface {
	Roll(count, sides int) ([]int, error)
}

// ToolkitRoller rolls using rpg-toolkit dice
type ToolkitRoller struct{}

// NewToolkitRoller creates the production roller
func NewToolkitRoller() *ToolkitRoller {
	return &ToolkitRoller{}
}

var _ Roller = (*ToolkitRoller)(nil)

// Roll rolls count dice of the given size and returns the individual values
func (r *ToolkitRoller) Roll(count, sides int) ([]int, error) {
	roll, err := rpgdice.NewRoll(count, sides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %dd%d roll", count, sides)
	}

	// Forces the roll; the toolkit only exposes individual dice through the
	// description, format "+2d6[3,4]=7".
	_ = roll.GetValue()
	description := roll.GetDescription()

	values, err := parseDiceDescription(description)
	if err != nil {
		return nil, err
	}
	if len(values) != count {
		return nil, errors.Internalf("expected %d dice in %q, got %d", count, description, len(values))
	}
	return values, nil
}

func parseDiceDescription(description string) ([]int, error) {
	start := strings.Index(description, "[")
	end := strings.Index(description, "]")
	if start < 0 || end <= start {
		return nil, errors.Internalf("unparseable dice description: %q", description)
	}

	parts := strings.Split(description[start+1:end], ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Internalf("unparseable die value in %q", description)
		}
		values = append(values, v)
	}
	return values, nil
}

// ScriptedRoller replays a fixed sequence of rolls for tests
type ScriptedRoller struct {
	mu    sync.Mutex
	queue [][]int
}

// NewScripted creates a roller that returns the given rolls in order
func NewScripted(rolls ...[]int) *ScriptedRoller {
	return &ScriptedRoller{queue: rolls}
}

var _ Roller = (*ScriptedRoller)(nil)

// Roll pops the next scripted roll
func (r *ScriptedRoller) Roll(count, sides int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		return nil, errors.Internal("scripted roller exhausted")
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	if len(next) != count {
		return nil, errors.Internalf("scripted roll has %d dice, caller wants %d", len(next), count)
	}
	return next, nil
}

// Push appends another scripted roll
func (r *ScriptedRoller) Push(roll []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, roll)
}
