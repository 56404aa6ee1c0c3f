package game

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lcampanari/gamebook-api/internal/achievements"
	"github.com/lcampanari/gamebook-api/internal/action"
	"github.com/lcampanari/gamebook-api/internal/audio"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/items"
	"github.com/lcampanari/gamebook-api/internal/mechanics"
	"github.com/lcampanari/gamebook-api/internal/narrative"
	sessionrepo "github.com/lcampanari/gamebook-api/internal/repositories/session"
	gamesvc "github.com/lcampanari/gamebook-api/internal/services/game"
	"github.com/lcampanari/gamebook-api/internal/validation"
)

// stage identifies one step of the turn state machine. Every stage
// returns the next stage explicitly; anything unrecognized forces Done
// with an error, so a dangling transition can never loop.
type stage string

const (
	stageValidating stage = "validating"
	stageRetrieving stage = "retrieving_context"
	stageResolving  stage = "resolving_mechanics"
	stageNarrating  stage = "narrating"
	stagePersisting stage = "persisting_state"
	stageTerminal   stage = "checking_terminal"
	stageDone       stage = "done"
)

// turnContext threads the typed per-stage state through the machine
type turnContext struct {
	input     *gamesvc.ProcessTurnInput
	session   *entities.Session
	character *entities.Character

	action *entities.Action

	// section is the current section's context, target the one the
	// narration grounds on (differs after navigation). Either may be
	// nil when retrieval failed; the narrator then improvises.
	section *entities.SectionContext
	target  *entities.SectionContext

	// targetSection is the parsed navigation destination
	targetSection int

	rejected bool
	reason   string

	facts  []string
	events []audio.Event

	narrative  string
	improvised bool

	unlocked []string
}

// ProcessTurn runs one full turn. Turns for the same session are
// strictly serialized; only the persisting stage writes the session,
// so any earlier failure leaves the stored state untouched.
func (o *Orchestrator) ProcessTurn(ctx context.Context, input *gamesvc.ProcessTurnInput) (*gamesvc.ProcessTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.SessionID == "" {
		vb.RequiredField("SessionID")
	}
	if input.UserID == "" {
		vb.RequiredField("UserID")
	}
	if input.ActionText == "" {
		vb.RequiredField("ActionText")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	mu := o.sessionLock(input.SessionID)
	mu.Lock()
	defer mu.Unlock()

	loaded, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}
	if loaded.Session.UserID != input.UserID {
		return nil, errors.InvalidArgument("session does not belong to this user")
	}
	if loaded.Session.Terminal() {
		o.dropSessionLock(input.SessionID)
		return nil, errors.FailedPreconditionf("session is %s and accepts no further turns", loaded.Session.Status)
	}

	tc := &turnContext{
		input:     input,
		session:   loaded.Session,
		character: loaded.Character,
	}

	current := stageValidating
	for current != stageDone {
		next, err := o.runStage(ctx, current, tc)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if tc.session.Terminal() {
		o.dropSessionLock(input.SessionID)
	}

	return o.buildOutput(tc), nil
}

func (o *Orchestrator) runStage(ctx context.Context, s stage, tc *turnContext) (stage, error) {
	switch s {
	case stageValidating:
		return o.validateStage(ctx, tc)
	case stageRetrieving:
		return o.retrieveStage(ctx, tc)
	case stageResolving:
		return o.resolveStage(tc)
	case stageNarrating:
		return o.narrateStage(ctx, tc)
	case stagePersisting:
		return o.persistStage(ctx, tc)
	case stageTerminal:
		return o.terminalStage(tc)
	default:
		return stageDone, errors.Internalf("unrecognized turn stage %q", s)
	}
}

// validateStage classifies the action and runs the matching validator
// against the current section. Rejection jumps straight to Done with
// the player-facing message and zero mutation.
func (o *Orchestrator) validateStage(ctx context.Context, tc *turnContext) (stage, error) {
	section, err := o.retriever.GetSection(ctx, tc.session.BookID, tc.session.CurrentSection)
	if err != nil {
		if !errors.IsNotFound(err) {
			return stageDone, err
		}
		slog.Warn("current section unresolved, degrading",
			"session_id", tc.session.ID,
			"section", tc.session.CurrentSection,
		)
	}
	tc.section = section

	scope := tc.currentSection()
	tc.action = action.Classify(tc.input.ActionText, &action.Options{
		Items: append(append([]string{}, scope.Items...), tc.session.Inventory...),
		NPCs:  scope.NPCs,
	})

	result := o.validateAction(tc)
	if !result.Valid {
		tc.rejected = true
		tc.reason = result.Reason
		tc.narrative = result.Message
		return stageDone, nil
	}
	if result.Reason == validation.ReasonOptionalTest && result.Message != "" {
		tc.facts = append(tc.facts, result.Message)
	}

	return stageRetrieving, nil
}

func (o *Orchestrator) validateAction(tc *turnContext) validation.Result {
	scope := tc.currentSection()

	switch tc.action.Type {
	case entities.ActionPickup:
		return validation.Pickup(tc.action.Target, scope, tc.session.Inventory)
	case entities.ActionUseItem:
		return validation.UseItem(tc.action.Target, tc.session.Inventory, tc.session.InCombat())
	case entities.ActionTalk:
		return validation.Talk(tc.action.Target, scope)
	case entities.ActionCombat:
		return validation.Combat(tc.session.Combat)
	case entities.ActionNavigation:
		target, err := strconv.Atoi(tc.action.Target)
		tc.targetSection = target
		return validation.Navigation(target, err == nil, scope, tc.session.CurrentSection)
	case entities.ActionTestLuck:
		return validation.TestLuck(tc.character, scope)
	case entities.ActionTestSkill:
		return validation.TestSkill(tc.character, scope)
	default:
		// examine and exploration are always allowed
		return validation.Result{Valid: true, Reason: validation.ReasonOK}
	}
}

// retrieveStage resolves the context the narration will ground on. For
// navigation that is the destination section, which also carries the
// entry requirements.
func (o *Orchestrator) retrieveStage(ctx context.Context, tc *turnContext) (stage, error) {
	if tc.action.Type != entities.ActionNavigation {
		tc.target = tc.section
		return stageResolving, nil
	}

	target, err := o.retriever.GetSection(ctx, tc.session.BookID, tc.targetSection)
	if err != nil {
		if !errors.IsNotFound(err) {
			return stageDone, err
		}
		tc.target = nil
		return stageResolving, nil
	}

	if result := validation.RequiredItems(target, tc.session.Inventory); !result.Valid {
		tc.rejected = true
		tc.reason = result.Reason
		tc.narrative = result.Message
		return stageDone, nil
	}

	tc.target = target
	return stageResolving, nil
}

// resolveStage applies the deterministic mechanics to the in-memory
// snapshot. Nothing here touches the store.
func (o *Orchestrator) resolveStage(tc *turnContext) (stage, error) {
	var err error
	switch tc.action.Type {
	case entities.ActionPickup:
		o.resolvePickup(tc)
	case entities.ActionUseItem:
		err = o.resolveUseItem(tc)
	case entities.ActionTalk:
		tc.facts = append(tc.facts, fmt.Sprintf("Você conversa com %s.", tc.action.Target))
	case entities.ActionCombat:
		err = o.resolveCombat(tc)
	case entities.ActionNavigation:
		o.resolveNavigation(tc)
	case entities.ActionTestLuck:
		err = o.resolveTestLuck(tc)
	case entities.ActionTestSkill:
		err = o.resolveTestSkill(tc)
	case entities.ActionExamine:
		tc.facts = append(tc.facts, fmt.Sprintf("Você examina %s com atenção.", tc.action.Target))
	}
	if err != nil {
		return stageDone, err
	}
	if tc.rejected {
		return stageDone, nil
	}

	o.applyTerminalConditions(tc)
	return stageNarrating, nil
}

func (o *Orchestrator) resolvePickup(tc *turnContext) {
	item := items.Normalize(tc.action.Target)
	tc.session.Inventory = append(tc.session.Inventory, item)
	tc.facts = append(tc.facts, fmt.Sprintf("Você pegou %s.", item))
	tc.events = append(tc.events, audio.EventItemPickup)
}

func (o *Orchestrator) resolveUseItem(tc *turnContext) error {
	item := items.Normalize(tc.action.Target)

	if _, ok := mechanics.ClassifyConsumable(item); !ok {
		tc.facts = append(tc.facts, fmt.Sprintf("Você usou %s.", item))
		tc.events = append(tc.events, audio.EventItemUse)
		return nil
	}

	result, err := mechanics.Consume(item, tc.character)
	if err != nil {
		if errors.IsFailedPrecondition(err) {
			tc.rejected = true
			tc.reason = "no_provisions"
			tc.narrative = "Você não tem mais provisões."
			return nil
		}
		return err
	}

	tc.character.ApplyDelta(result.Stat, result.Delta)
	if result.ProvisionsDelta != 0 {
		tc.character.ApplyDelta("provisions", result.ProvisionsDelta)
	}
	if result.RemoveItem {
		tc.session.Inventory = removeItem(tc.session.Inventory, item)
	}

	tc.facts = append(tc.facts, fmt.Sprintf("Você consumiu %s (+%d %s).", item, result.Delta, statName(result.Stat)))
	tc.events = append(tc.events, audio.EventItemUse)
	return nil
}

func (o *Orchestrator) resolveCombat(tc *turnContext) error {
	enemy := tc.session.Combat

	round, err := o.engine.CombatRound(tc.character.Skill, tc.character.Stamina, enemy)
	if err != nil {
		return err
	}

	enemy.EnemyStamina = round.EnemyStamina
	enemy.RoundCount++
	if round.PlayerDamage > 0 {
		tc.character.ApplyDelta("stamina", -round.PlayerDamage)
	}

	tc.facts = append(tc.facts,
		fmt.Sprintf("Seu ataque: %d. Ataque de %s: %d.", round.PlayerAttack, enemy.EnemyName, round.EnemyAttack))

	switch {
	case round.EnemyDamage > 0:
		tc.facts = append(tc.facts, fmt.Sprintf("Você causou %d de dano. ENERGIA de %s: %d.", round.EnemyDamage, enemy.EnemyName, enemy.EnemyStamina))
		tc.events = append(tc.events, audio.EventCombatHit)
	case round.PlayerDamage > 0:
		tc.facts = append(tc.facts, fmt.Sprintf("%s causou %d de dano. Sua ENERGIA: %d.", enemy.EnemyName, round.PlayerDamage, tc.character.Stamina))
		tc.events = append(tc.events, audio.EventCombatHit)
	default:
		tc.facts = append(tc.facts, "As lâminas se cruzam sem causar dano.")
		tc.events = append(tc.events, audio.EventCombatMiss)
	}

	if round.Winner == mechanics.WinnerPlayer {
		tc.facts = append(tc.facts, fmt.Sprintf("%s foi derrotado!", enemy.EnemyName))
		tc.events = append(tc.events, audio.EventCombatVictory)
		tc.session.Combat = nil
		tc.session.RecordCombatVictory()
	}
	return nil
}

func (o *Orchestrator) resolveNavigation(tc *turnContext) {
	tc.session.CurrentSection = tc.targetSection
	if !tc.session.HasVisited(tc.targetSection) {
		tc.session.VisitedSections = append(tc.session.VisitedSections, tc.targetSection)
	}
	tc.facts = append(tc.facts, fmt.Sprintf("Você segue para a seção %d.", tc.targetSection))

	// Entering a section with a waiting enemy opens the encounter
	if tc.target != nil && tc.target.Combat != nil && tc.session.Combat == nil {
		tc.session.Combat = &entities.CombatEncounter{
			EnemyName:    tc.target.Combat.EnemyName,
			EnemySkill:   tc.target.Combat.EnemySkill,
			EnemyStamina: tc.target.Combat.EnemyStamina,
		}
		tc.facts = append(tc.facts, fmt.Sprintf("%s bloqueia seu caminho! HABILIDADE %d, ENERGIA %d.",
			tc.target.Combat.EnemyName, tc.target.Combat.EnemySkill, tc.target.Combat.EnemyStamina))
		tc.events = append(tc.events, audio.EventCombatStart)
	}
}

func (o *Orchestrator) resolveTestLuck(tc *turnContext) error {
	result, err := o.engine.TestLuck(tc.character.Luck)
	if err != nil {
		return err
	}

	// Luck always drops by one, success or failure
	tc.character.ApplyDelta("luck", -mechanics.LuckCost)

	if result.Success {
		tc.facts = append(tc.facts, fmt.Sprintf("Teste de SORTE: rolou %d contra %d. Você teve sorte!", result.Roll, result.Target))
		tc.events = append(tc.events, audio.EventTestSuccess)
	} else {
		tc.facts = append(tc.facts, fmt.Sprintf("Teste de SORTE: rolou %d contra %d. A sorte não estava ao seu lado.", result.Roll, result.Target))
		tc.events = append(tc.events, audio.EventTestFailure)
	}
	tc.facts = append(tc.facts, fmt.Sprintf("Sua SORTE agora é %d.", tc.character.Luck))
	return nil
}

func (o *Orchestrator) resolveTestSkill(tc *turnContext) error {
	modifier := 0
	if test := tc.currentSection().Test; test != nil && test.Kind == "skill" {
		modifier = test.Modifier
	}

	result, err := o.engine.TestSkill(tc.character.Skill, modifier)
	if err != nil {
		return err
	}

	if result.Success {
		tc.facts = append(tc.facts, fmt.Sprintf("Teste de HABILIDADE: rolou %d contra %d. Sucesso!", result.Roll, result.Target))
		tc.events = append(tc.events, audio.EventTestSuccess)
	} else {
		tc.facts = append(tc.facts, fmt.Sprintf("Teste de HABILIDADE: rolou %d contra %d. Fracasso.", result.Roll, result.Target))
		tc.events = append(tc.events, audio.EventTestFailure)
	}
	return nil
}

// applyTerminalConditions flags death and victory on the in-memory
// session so the persisting stage commits them with the turn.
func (o *Orchestrator) applyTerminalConditions(tc *turnContext) {
	if tc.character.Stamina <= 0 {
		tc.session.Status = entities.StatusDead
		tc.facts = append(tc.facts, "Sua ENERGIA chegou a zero. Sua aventura termina aqui.")
		tc.events = append(tc.events, audio.EventGameOver)
		return
	}

	if tc.session.FinalSection > 0 && tc.session.CurrentSection == tc.session.FinalSection {
		tc.session.Status = entities.StatusCompleted
		tc.facts = append(tc.facts, "Você chegou ao fim da aventura. Vitória!")
		tc.events = append(tc.events, audio.EventVictory)
	}
}

// narrateStage renders prose from the grounding context and resolved
// facts. A canceled or timed-out narration aborts the turn before
// anything is written; any other failure degrades to the fallback
// narrator so the turn can still commit.
func (o *Orchestrator) narrateStage(ctx context.Context, tc *turnContext) (stage, error) {
	nctx, cancel := context.WithTimeout(ctx, o.narrationTimeout)
	defer cancel()

	request := &narrative.Request{
		BookTitle: tc.session.AdventureID,
		Section:   tc.target,
		Action:    tc.action,
		Facts:     tc.facts,
		Stats:     tc.character.Snapshot(),
	}

	resp, err := o.generator.Generate(nctx, request)
	if err != nil {
		code := errors.GetCode(err)
		if code == errors.CodeCanceled || code == errors.CodeDeadlineExceeded {
			return stageDone, err
		}

		slog.Warn("narration failed, using fallback",
			"session_id", tc.session.ID,
			"error", err,
		)
		resp, err = o.fallback.Generate(ctx, request)
		if err != nil {
			return stageDone, err
		}
	}

	tc.narrative = resp.Narrative
	tc.improvised = resp.Improvised
	return stagePersisting, nil
}

// persistStage is the single writer: the turn record, achievements and
// the whole session delta commit in one save.
func (o *Orchestrator) persistStage(ctx context.Context, tc *turnContext) (stage, error) {
	tc.session.TurnNumber++
	tc.session.History = append(tc.session.History, entities.TurnRecord{
		Turn:       tc.session.TurnNumber,
		Action:     tc.action.Raw,
		ActionType: string(tc.action.Type),
		Narrative:  tc.narrative,
		Section:    tc.session.CurrentSection,
		Stats:      tc.character.Snapshot(),
		Timestamp:  o.clock.Now(),
	})

	tc.unlocked = achievements.Evaluate(tc.session, tc.character)
	if len(tc.unlocked) > 0 {
		tc.session.Achievements = append(tc.session.Achievements, tc.unlocked...)
		tc.events = append(tc.events, audio.EventAchievement)
	}

	if _, err := o.sessionRepo.Save(ctx, sessionrepo.SaveInput{
		Session:   tc.session,
		Character: tc.character,
	}); err != nil {
		return stageDone, err
	}

	return stageTerminal, nil
}

// terminalStage only reads the committed snapshot; the response flags
// are derived in buildOutput.
func (o *Orchestrator) terminalStage(tc *turnContext) (stage, error) {
	if tc.session.Terminal() {
		slog.Info("session reached terminal state",
			"session_id", tc.session.ID,
			"status", tc.session.Status,
			"turns", tc.session.TurnNumber,
		)
	}
	return stageDone, nil
}

func (o *Orchestrator) buildOutput(tc *turnContext) *gamesvc.ProcessTurnOutput {
	return &gamesvc.ProcessTurnOutput{
		SessionID:            tc.session.ID,
		TurnNumber:           tc.session.TurnNumber,
		Success:              !tc.rejected,
		Reason:               tc.reason,
		Action:               tc.action,
		Narrative:            tc.narrative,
		Improvised:           tc.improvised,
		Stats:                tc.character.Snapshot(),
		Inventory:            append([]string{}, tc.session.Inventory...),
		CurrentSection:       tc.session.CurrentSection,
		InCombat:             tc.session.InCombat(),
		Combat:               tc.session.Combat,
		GameOver:             tc.session.Status == entities.StatusDead,
		Victory:              tc.session.Status == entities.StatusCompleted,
		UnlockedAchievements: tc.unlocked,
		AudioCues:            audio.ForEvents(tc.events),
	}
}

// currentSection returns the retrieved context or an empty stand-in so
// validators degrade deterministically when retrieval failed.
func (tc *turnContext) currentSection() *entities.SectionContext {
	if tc.section != nil {
		return tc.section
	}
	return &entities.SectionContext{
		BookID: tc.session.BookID,
		Number: tc.session.CurrentSection,
	}
}

func removeItem(inventory []string, item string) []string {
	out := inventory[:0]
	for _, held := range inventory {
		if held != item {
			out = append(out, held)
		}
	}
	return out
}

func statName(stat string) string {
	switch stat {
	case "skill":
		return "HABILIDADE"
	case "stamina":
		return "ENERGIA"
	case "luck":
		return "SORTE"
	default:
		return stat
	}
}
