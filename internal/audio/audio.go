// Package audio maps turn events to client-side audio cues. The engine
// only emits cue descriptors; playback is entirely the client's job.
package audio

// Kind distinguishes music from one-shot effects
type Kind string

// Cue kinds
const (
	KindMusic   Kind = "music"
	KindSFX     Kind = "sfx"
	KindAmbient Kind = "ambient"
)

// Event names a moment in a turn that can carry a cue
type Event string

// Turn events with audio cues
const (
	EventCombatStart   Event = "combat_start"
	EventCombatHit     Event = "combat_hit"
	EventCombatMiss    Event = "combat_miss"
	EventCombatVictory Event = "combat_victory"
	EventCombatDefeat  Event = "combat_defeat"
	EventItemPickup    Event = "item_pickup"
	EventItemUse       Event = "item_use"
	EventTestSuccess   Event = "test_success"
	EventTestFailure   Event = "test_failure"
	EventAchievement   Event = "achievement_unlock"
	EventGameOver      Event = "game_over"
	EventVictory       Event = "victory"
)

// Cue describes one client-side audio asset
type Cue struct {
	Event  Event   `json:"event"`
	Kind   Kind    `json:"kind"`
	File   string  `json:"file"`
	Volume float64 `json:"volume"`
	Loop   bool    `json:"loop"`
}

var library = map[Event]Cue{
	EventCombatStart:   {Kind: KindMusic, File: "audio/music/combat_theme.mp3", Volume: 0.7, Loop: true},
	EventCombatHit:     {Kind: KindSFX, File: "audio/sfx/sword_hit.mp3", Volume: 0.8},
	EventCombatMiss:    {Kind: KindSFX, File: "audio/sfx/sword_miss.mp3", Volume: 0.6},
	EventCombatVictory: {Kind: KindSFX, File: "audio/sfx/victory.mp3", Volume: 0.9},
	EventCombatDefeat:  {Kind: KindMusic, File: "audio/music/defeat_theme.mp3", Volume: 0.7},
	EventItemPickup:    {Kind: KindSFX, File: "audio/sfx/item_pickup.mp3", Volume: 0.7},
	EventItemUse:       {Kind: KindSFX, File: "audio/sfx/item_use.mp3", Volume: 0.7},
	EventTestSuccess:   {Kind: KindSFX, File: "audio/sfx/test_success.mp3", Volume: 0.8},
	EventTestFailure:   {Kind: KindSFX, File: "audio/sfx/test_failure.mp3", Volume: 0.8},
	EventAchievement:   {Kind: KindSFX, File: "audio/sfx/achievement.mp3", Volume: 0.9},
	EventGameOver:      {Kind: KindMusic, File: "audio/music/game_over.mp3", Volume: 0.8},
	EventVictory:       {Kind: KindMusic, File: "audio/music/victory_theme.mp3", Volume: 0.9},
}

// ForEvent returns the cue registered for the event
func ForEvent(event Event) (Cue, bool) {
	cue, ok := library[event]
	if ok {
		cue.Event = event
	}
	return cue, ok
}

// ForEvents maps a list of events to their cues, dropping unknowns
func ForEvents(events []Event) []Cue {
	cues := make([]Cue, 0, len(events))
	for _, e := range events {
		if cue, ok := ForEvent(e); ok {
			cues = append(cues, cue)
		}
	}
	return cues
}
