// Package mechanics implements the deterministic Fighting Fantasy rules:
// dice notation, luck and skill tests, combat rounds and consumables.
// Every function returns a typed result; randomness comes only from the
// injected roller.
package mechanics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lcampanari/gamebook-api/internal/dice"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

const (
	// MaxDicePerRoll bounds NdM notation
	MaxDicePerRoll = 10

	// CombatDamage is the fixed damage dealt by the winning side of a round
	CombatDamage = 2
)

var (
	notationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

	allowedSides = map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true, 20: true}
)

// Config holds the dependencies for the mechanics engine
type Config struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

// Engine evaluates game mechanics using an injected roller
type Engine struct {
	roller dice.Roller
}

// NewEngine creates a mechanics engine with the provided dependencies
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Engine{roller: cfg.Roller}, nil
}

// RollResult is the outcome of a dice notation roll
type RollResult struct {
	Notation string
	Rolls    []int
	Modifier int
	Total    int
}

// ParseNotation parses NdM[+K] notation and validates the bounds: at most
// MaxDicePerRoll dice, sides in {4,6,8,10,12,20}.
func ParseNotation(notation string) (count, sides, modifier int, err error) {
	matches := notationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(notation)))
	if len(matches) != 4 {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation: %s (expected format: NdM or NdM+K)", notation)
	}

	count, err = strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}
	sides, err = strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid modifier in notation: %s", notation)
		}
	}

	if count < 1 || count > MaxDicePerRoll {
		return 0, 0, 0, errors.InvalidArgumentf("dice count must be between 1 and %d: %s", MaxDicePerRoll, notation)
	}
	if !allowedSides[sides] {
		return 0, 0, 0, errors.InvalidArgumentf("unsupported die size d%d", sides)
	}

	return count, sides, modifier, nil
}

// RollDice rolls standard RPG notation
func (e *Engine) RollDice(notation string) (*RollResult, error) {
	count, sides, modifier, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}

	rolls, err := e.roller.Roll(count, sides)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	total := modifier
	for _, r := range rolls {
		total += r
	}

	return &RollResult{
		Notation: notation,
		Rolls:    rolls,
		Modifier: modifier,
		Total:    total,
	}, nil
}

// TestResult is the outcome of a luck or skill test
type TestResult struct {
	Kind    string // "luck" or "skill"
	Rolls   []int
	Roll    int
	Target  int
	Success bool
}

// TestLuck rolls 2d6 against the current luck value. Success iff the roll
// is less than or equal to luck. The caller must decrement luck by one
// afterward regardless of the outcome; LuckCost makes that explicit.
func (e *Engine) TestLuck(currentLuck int) (*TestResult, error) {
	roll, err := e.RollDice("2d6")
	if err != nil {
		return nil, err
	}

	return &TestResult{
		Kind:    "luck",
		Rolls:   roll.Rolls,
		Roll:    roll.Total,
		Target:  currentLuck,
		Success: roll.Total <= currentLuck,
	}, nil
}

// LuckCost is the luck spent by every luck test, success or failure
const LuckCost = 1

// TestSkill rolls 2d6 against skill plus a difficulty modifier. Skill
// itself is never consumed.
func (e *Engine) TestSkill(currentSkill, modifier int) (*TestResult, error) {
	roll, err := e.RollDice("2d6")
	if err != nil {
		return nil, err
	}

	target := currentSkill + modifier
	return &TestResult{
		Kind:    "skill",
		Rolls:   roll.Rolls,
		Roll:    roll.Total,
		Target:  target,
		Success: roll.Total <= target,
	}, nil
}

// Winner identifies which side ended a combat
type Winner string

// Combat round outcomes
const (
	WinnerNone   Winner = "none"
	WinnerPlayer Winner = "player"
	WinnerEnemy  Winner = "enemy"
)

// CombatRoundResult is the outcome of one attack exchange
type CombatRoundResult struct {
	PlayerRoll    int
	PlayerAttack  int
	EnemyRoll     int
	EnemyAttack   int
	PlayerDamage  int
	EnemyDamage   int
	PlayerStamina int
	EnemyStamina  int
	Winner        Winner
}

// CombatRound resolves one round: both sides roll 2d6 plus skill, the
// strictly higher attack deals CombatDamage to the other side's stamina,
// a tie deals nothing. Stamina floors at zero.
func (e *Engine) CombatRound(playerSkill, playerStamina int, enemy *entities.CombatEncounter) (*CombatRoundResult, error) {
	if enemy == nil {
		return nil, errors.InvalidArgument("combat round requires an enemy")
	}

	playerRoll, err := e.RollDice("2d6")
	if err != nil {
		return nil, err
	}
	enemyRoll, err := e.RollDice("2d6")
	if err != nil {
		return nil, err
	}

	result := &CombatRoundResult{
		PlayerRoll:    playerRoll.Total,
		PlayerAttack:  playerRoll.Total + playerSkill,
		EnemyRoll:     enemyRoll.Total,
		EnemyAttack:   enemyRoll.Total + enemy.EnemySkill,
		PlayerStamina: playerStamina,
		EnemyStamina:  enemy.EnemyStamina,
		Winner:        WinnerNone,
	}

	switch {
	case result.PlayerAttack > result.EnemyAttack:
		result.EnemyDamage = CombatDamage
		result.EnemyStamina = floorZero(result.EnemyStamina - CombatDamage)
	case result.EnemyAttack > result.PlayerAttack:
		result.PlayerDamage = CombatDamage
		result.PlayerStamina = floorZero(result.PlayerStamina - CombatDamage)
	}

	if result.EnemyStamina <= 0 {
		result.Winner = WinnerPlayer
	} else if result.PlayerStamina <= 0 {
		result.Winner = WinnerEnemy
	}

	return result, nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
