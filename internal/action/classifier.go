// Package action turns free player text into a typed action without any
// model call. Classification is an ordered cascade of pattern tiers; the
// first matching tier wins, so the same text always yields the same
// result.
package action

import (
	"regexp"
	"strings"

	"github.com/lcampanari/gamebook-api/internal/entities"
)

// Confidence per tier. These are fixed constants, not scores: a tier
// either matches or it does not.
const (
	ConfidencePickup      = 0.95
	ConfidenceUseItem     = 0.95
	ConfidenceTalk        = 0.9
	ConfidenceCombat      = 0.9
	ConfidenceNavigation  = 0.85
	ConfidenceTest        = 1.0
	ConfidenceExamine     = 0.8
	ConfidenceExploration = 0.5
)

// word matches a target token including accented characters, which \w
// does not cover.
const word = `([\p{L}\d_]+)`

// Portuguese verb patterns, one slice per tier. The optional article
// group keeps the capture on the actual target word.
var (
	pickupPatterns = compileAll(
		`peg(?:o|ar|ue) (?:o |a |um |uma )?`+word,
		`apanh(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`colh(?:o|er|a) (?:o |a |um |uma )?`+word,
		`obtenho (?:o |a |um |uma )?`+word,
		`me apodero (?:d)?(?:o |a )?`+word,
	)

	usePatterns = compileAll(
		`us(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`utiliz(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`empunh(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`beb(?:o|er|e) (?:o |a |um |uma )?`+word,
		`com(?:o|er|e) (?:o |a |um |uma )?`+word,
	)

	talkPatterns = compileAll(
		`fal(?:o|ar|e) com (?:o |a )?`+word,
		`convers(?:o|ar|e) com (?:o |a )?`+word,
		`pergunt(?:o|ar|e) (?:ao |à |para )?`+word,
		`digo (?:ao |à )?`+word,
		`questiono (?:o |a )?`+word,
	)

	combatKeywords = []string{"atac", "lut", "golpe", "invest", "desferir", "combat", "batalh"}
	combatTarget   = regexp.MustCompile(`(?:atac|lut)(?:o|ar|e) (?:o |a |um |uma )?` + word)

	navigationPatterns = compileAll(
		`v(?:ou|á|amos) (?:para )?(?:o |a )?`+word,
		`sig(?:o|a|amos) (?:para |pelo |pela )?(?:o |a )?`+word,
		`entro (?:no |na )?`+word,
		`avanço (?:para )?(?:o |a )?`+word,
	)

	sectionNumber = regexp.MustCompile(`se[çc][ãa]o (\d+)|\b(\d+)\b`)

	examinePatterns = compileAll(
		`examin(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`inspecion(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`observ(?:o|ar|e) (?:o |a |um |uma )?`+word,
		`olh(?:o|ar|e) (?:para )?(?:o |a )?`+word,
		`investig(?:o|ar|ue) (?:o |a |um |uma )?`+word,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Options narrows target extraction to what is actually in scope
type Options struct {
	Items []string // items present in the section or inventory
	NPCs  []string // characters present in the section
}

// Classify maps player text to a typed action. Tiers are evaluated in a
// fixed priority (pickup, use_item, talk, combat, navigation, test_luck,
// test_skill, examine) and the first match wins; anything else falls
// through to exploration. Verbs spanning two tiers resolve by that
// priority alone.
func Classify(text string, opts *Options) *entities.Action {
	if opts == nil {
		opts = &Options{}
	}
	lower := strings.ToLower(strings.TrimSpace(text))

	if target, ok := firstMatch(pickupPatterns, lower); ok {
		return action(text, entities.ActionPickup, refine(lower, target, opts.Items), ConfidencePickup)
	}

	if target, ok := firstMatch(usePatterns, lower); ok {
		return action(text, entities.ActionUseItem, refine(lower, target, opts.Items), ConfidenceUseItem)
	}

	if target, ok := firstMatch(talkPatterns, lower); ok {
		return action(text, entities.ActionTalk, refine(lower, target, opts.NPCs), ConfidenceTalk)
	}

	if containsAny(lower, combatKeywords) {
		target := "enemy"
		if m := combatTarget.FindStringSubmatch(lower); m != nil {
			target = m[1]
		}
		return action(text, entities.ActionCombat, target, ConfidenceCombat)
	}

	if target, ok := firstMatch(navigationPatterns, lower); ok {
		if num := extractSectionNumber(lower); num != "" {
			target = num
		}
		return action(text, entities.ActionNavigation, target, ConfidenceNavigation)
	}

	if strings.Contains(lower, "sorte") {
		return action(text, entities.ActionTestLuck, "", ConfidenceTest)
	}

	if strings.Contains(lower, "habilidade") {
		return action(text, entities.ActionTestSkill, "", ConfidenceTest)
	}

	if target, ok := firstMatch(examinePatterns, lower); ok {
		return action(text, entities.ActionExamine, target, ConfidenceExamine)
	}

	return action(text, entities.ActionExploration, "", ConfidenceExploration)
}

// ExtractTarget resolves the action's target against a candidate list,
// e.g. "pego a espada" against ["ESPADA", "ESCUDO"]. Returns the
// candidate as given, or empty when none is mentioned.
func ExtractTarget(text string, candidates []string) string {
	lower := strings.ToLower(text)
	for _, candidate := range candidates {
		spaced := strings.ToLower(strings.ReplaceAll(candidate, "_", " "))
		if strings.Contains(lower, spaced) || strings.Contains(lower, strings.ToLower(candidate)) {
			return candidate
		}
	}
	return ""
}

func extractSectionNumber(lower string) string {
	m := sectionNumber.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

func firstMatch(patterns []*regexp.Regexp, lower string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func refine(lower, fallback string, candidates []string) string {
	if target := ExtractTarget(lower, candidates); target != "" {
		return target
	}
	return fallback
}

func action(raw string, t entities.ActionType, target string, confidence float64) *entities.Action {
	return &entities.Action{
		Raw:        raw,
		Type:       t,
		Target:     target,
		Confidence: confidence,
	}
}
