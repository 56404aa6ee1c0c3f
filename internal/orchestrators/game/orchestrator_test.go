package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/lcampanari/gamebook-api/internal/audio"
	"github.com/lcampanari/gamebook-api/internal/dice"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/mechanics"
	"github.com/lcampanari/gamebook-api/internal/narrative"
	narrativemock "github.com/lcampanari/gamebook-api/internal/narrative/mock"
	game "github.com/lcampanari/gamebook-api/internal/orchestrators/game"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	"github.com/lcampanari/gamebook-api/internal/pkg/idgen"
	sessionrepo "github.com/lcampanari/gamebook-api/internal/repositories/session"
	sessionmock "github.com/lcampanari/gamebook-api/internal/repositories/session/mock"
	retrievermock "github.com/lcampanari/gamebook-api/internal/retriever/mock"
	gamesvc "github.com/lcampanari/gamebook-api/internal/services/game"
	"github.com/lcampanari/gamebook-api/internal/validation"
)

type OrchestratorSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	repo      *sessionmock.MockRepository
	retriever *retrievermock.MockRetriever
	generator *narrativemock.MockGenerator
	roller    *dice.ScriptedRoller
	clock     *clock.Fixed

	orchestrator gamesvc.Service
	ctx          context.Context
}

func (s *OrchestratorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = sessionmock.NewMockRepository(s.ctrl)
	s.retriever = retrievermock.NewMockRetriever(s.ctrl)
	s.generator = narrativemock.NewMockGenerator(s.ctrl)
	s.roller = dice.NewScripted()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	engine, err := mechanics.NewEngine(&mechanics.Config{Roller: s.roller})
	s.Require().NoError(err)

	orchestrator, err := game.New(&game.Config{
		SessionRepo: s.repo,
		Retriever:   s.retriever,
		Engine:      engine,
		Generator:   s.generator,
		Clock:       s.clock,
		IDGen:       idgen.NewSequential("sess"),
		CharIDGen:   idgen.NewSequential("char"),
	})
	s.Require().NoError(err)
	s.orchestrator = orchestrator
}

func (s *OrchestratorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorSuite) snapshot() (*entities.Session, *entities.Character) {
	character := &entities.Character{
		ID:             "char_1",
		UserID:         "user-1",
		Name:           "Aventureiro",
		Skill:          9,
		Stamina:        18,
		Luck:           9,
		InitialSkill:   9,
		InitialStamina: 18,
		InitialLuck:    9,
		Provisions:     5,
	}
	session := &entities.Session{
		ID:              "sess_1",
		UserID:          "user-1",
		AdventureID:     "A Cidadela do Caos",
		CharacterID:     "char_1",
		BookID:          "citadel",
		CurrentSection:  5,
		FinalSection:    400,
		VisitedSections: []int{1, 5},
		Inventory:       []string{"ESPADA", "MOCHILA", "LANTERNA", "PROVISÕES"},
		Flags:           map[string]any{},
		Status:          entities.StatusActive,
		Version:         1,
	}
	return session, character
}

func (s *OrchestratorSuite) currentSection() *entities.SectionContext {
	return &entities.SectionContext{
		BookID: "citadel",
		Number: 5,
		Text:   "Uma sala empoeirada com uma mesa ao centro.",
		Exits:  []int{8, 12},
		NPCs:   []string{"Guarda"},
		Items:  []string{"CHAVE_BRONZE"},
	}
}

func (s *OrchestratorSuite) expectGet(session *entities.Session, character *entities.Character) {
	s.repo.EXPECT().
		Get(gomock.Any(), sessionrepo.GetInput{SessionID: session.ID}).
		Return(&sessionrepo.GetOutput{Session: session, Character: character}, nil)
}

func (s *OrchestratorSuite) expectNarration(text string) {
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(&narrative.Response{Narrative: text}, nil)
}

func (s *OrchestratorSuite) expectSave() *sessionrepo.SaveInput {
	var captured sessionrepo.SaveInput
	s.repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessionrepo.SaveInput) (*sessionrepo.SaveOutput, error) {
			captured = input
			return &sessionrepo.SaveOutput{Version: input.Session.Version + 1}, nil
		})
	return &captured
}

func (s *OrchestratorSuite) TestStartGameRollsCharacter() {
	// 1d6+6 skill, 2d6+12 stamina, 1d6+6 luck
	s.roller.Push([]int{4})
	s.roller.Push([]int{3, 5})
	s.roller.Push([]int{2})

	s.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessionrepo.CreateInput) (*sessionrepo.CreateOutput, error) {
			return &sessionrepo.CreateOutput{Session: input.Session}, nil
		})

	out, err := s.orchestrator.StartGame(s.ctx, &gamesvc.StartGameInput{
		UserID:        "user-1",
		BookID:        "citadel",
		BookTitle:     "A Cidadela do Caos",
		CharacterName: "Aventureiro",
	})
	s.Require().NoError(err)

	s.Equal(10, out.Character.Skill)
	s.Equal(20, out.Character.Stamina)
	s.Equal(8, out.Character.Luck)
	s.Equal(10, out.Character.Provisions)

	s.Equal(1, out.Session.CurrentSection)
	s.Equal(400, out.Session.FinalSection)
	s.Equal(entities.StatusActive, out.Session.Status)
	s.Contains(out.Session.Inventory, "ESPADA")
	s.Contains(out.Session.Inventory, "MOCHILA")
	s.Contains(out.Session.Inventory, "LANTERNA")
	s.Contains(out.Session.Inventory, "PROVISÕES")
}

func (s *OrchestratorSuite) TestPickupCommitsInventoryAndHistory() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)

	var prompt *narrative.Request
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *narrative.Request) (*narrative.Response, error) {
			prompt = req
			return &narrative.Response{Narrative: "Você guarda a chave na mochila."}, nil
		})
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "pego a chave bronze",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.Equal(entities.ActionPickup, out.Action.Type)
	s.Equal(1, out.TurnNumber)
	s.Contains(out.Inventory, "CHAVE_BRONZE")

	s.Require().NotNil(saved.Session)
	s.Contains(saved.Session.Inventory, "CHAVE_BRONZE")
	s.Len(saved.Session.History, 1)
	s.Equal("pego a chave bronze", saved.Session.History[0].Action)

	s.Require().NotNil(prompt)
	s.Contains(prompt.Facts, "Você pegou CHAVE_BRONZE.")

	s.Require().NotEmpty(out.AudioCues)
	s.Equal(audio.EventItemPickup, out.AudioCues[0].Event)
}

func (s *OrchestratorSuite) TestRejectedPickupLeavesStateUntouched() {
	session, character := s.snapshot()
	s.repo.EXPECT().
		Get(gomock.Any(), sessionrepo.GetInput{SessionID: session.ID}).
		Return(&sessionrepo.GetOutput{Session: session, Character: character}, nil).
		Times(2)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil).Times(2)

	input := &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "pego a adaga",
	}

	out, err := s.orchestrator.ProcessTurn(s.ctx, input)
	s.Require().NoError(err)

	s.False(out.Success)
	s.Equal(validation.ReasonItemNotAvailable, out.Reason)
	s.Equal(0, out.TurnNumber)
	s.NotContains(out.Inventory, "ADAGA")
	s.Empty(session.History)
	s.NotEmpty(out.Narrative)

	// Retrying the same invalid action changes nothing and answers the same
	again, err := s.orchestrator.ProcessTurn(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(out, again)
	s.Empty(session.History)
	s.Equal(int64(1), session.Version)
}

func (s *OrchestratorSuite) TestCombatRoundToDeath() {
	session, character := s.snapshot()
	character.Stamina = 2
	session.Combat = &entities.CombatEncounter{EnemyName: "Troll", EnemySkill: 10, EnemyStamina: 8}

	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	// player 2d6 then enemy 2d6; the enemy wins the exchange
	s.roller.Push([]int{1, 1})
	s.roller.Push([]int{6, 6})
	s.expectNarration("O golpe do troll o derruba.")
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "ataco o troll",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.True(out.GameOver)
	s.False(out.Victory)
	s.Equal(0, out.Stats.Stamina)
	s.Equal(entities.StatusDead, saved.Session.Status)

	events := make([]audio.Event, 0, len(out.AudioCues))
	for _, cue := range out.AudioCues {
		events = append(events, cue.Event)
	}
	s.Contains(events, audio.EventGameOver)
}

func (s *OrchestratorSuite) TestCombatVictoryClearsEncounter() {
	session, character := s.snapshot()
	session.Combat = &entities.CombatEncounter{EnemyName: "Orc", EnemySkill: 5, EnemyStamina: 2}

	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.roller.Push([]int{6, 6})
	s.roller.Push([]int{1, 1})
	s.expectNarration("O orc cai aos seus pés.")
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "ataco o orc",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.False(out.InCombat)
	s.Nil(out.Combat)
	s.Nil(saved.Session.Combat)
	s.False(out.GameOver)

	events := make([]audio.Event, 0, len(out.AudioCues))
	for _, cue := range out.AudioCues {
		events = append(events, cue.Event)
	}
	s.Contains(events, audio.EventCombatVictory)
	s.Contains(out.UnlockedAchievements, "first_blood")
}

func (s *OrchestratorSuite) TestNavigationEntersCombatSection() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 8).Return(&entities.SectionContext{
		BookID: "citadel",
		Number: 8,
		Text:   "Um corredor escuro.",
		Combat: &entities.CombatSpec{EnemyName: "Goblin", EnemySkill: 5, EnemyStamina: 4},
	}, nil)
	s.expectNarration("Um goblin surge das sombras.")
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "vou para a seção 8",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.Equal(8, out.CurrentSection)
	s.True(out.InCombat)
	s.Require().NotNil(out.Combat)
	s.Equal("Goblin", out.Combat.EnemyName)
	s.Contains(saved.Session.VisitedSections, 8)

	events := make([]audio.Event, 0, len(out.AudioCues))
	for _, cue := range out.AudioCues {
		events = append(events, cue.Event)
	}
	s.Contains(events, audio.EventCombatStart)
}

func (s *OrchestratorSuite) TestNavigationToUnlistedExitRejected() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "vou para a seção 99",
	})
	s.Require().NoError(err)

	s.False(out.Success)
	s.Equal(validation.ReasonInvalidExit, out.Reason)
	s.Equal(5, out.CurrentSection)
}

func (s *OrchestratorSuite) TestNavigationToFinalSectionCompletes() {
	session, character := s.snapshot()
	session.FinalSection = 8

	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 8).Return(&entities.SectionContext{
		BookID: "citadel",
		Number: 8,
		Text:   "A saída da cidadela, enfim.",
	}, nil)
	s.expectNarration("Você emerge na luz do dia, vitorioso.")
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "vou para a seção 8",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.True(out.Victory)
	s.False(out.GameOver)
	s.Equal(entities.StatusCompleted, saved.Session.Status)
	s.Contains(out.UnlockedAchievements, "first_adventure")
}

func (s *OrchestratorSuite) TestLuckDecrementsOnSuccess() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.roller.Push([]int{3, 3}) // 6 <= 9
	s.expectNarration("A sorte sorri para você.")
	s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "testo minha sorte",
	})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(8, out.Stats.Luck)
}

func (s *OrchestratorSuite) TestLuckDecrementsOnFailure() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.roller.Push([]int{6, 6}) // 12 > 9
	s.expectNarration("A sorte o abandona.")
	s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "testo minha sorte",
	})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(8, out.Stats.Luck)
}

func (s *OrchestratorSuite) TestEatingProvisionsRestoresStamina() {
	session, character := s.snapshot()
	character.Stamina = 10

	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.expectNarration("Você come em silêncio, recuperando as forças.")
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "como as provisões",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.Equal(14, out.Stats.Stamina)
	s.Equal(4, out.Stats.Provisions)
	s.Contains(saved.Session.Inventory, "PROVISÕES")
}

func (s *OrchestratorSuite) TestNarrationFailureFallsBackToStatic() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("model overloaded"))
	saved := s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "pego a chave bronze",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.NotEmpty(out.Narrative)
	s.Len(saved.Session.History, 1)
}

func (s *OrchestratorSuite) TestNarrationTimeoutAbortsTurn() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().GetSection(gomock.Any(), "citadel", 5).Return(s.currentSection(), nil)
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(nil, errors.DeadlineExceeded("narration timed out"))

	_, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "pego a chave bronze",
	})
	s.Require().Error(err)
	s.Equal(errors.CodeDeadlineExceeded, errors.GetCode(err))
	s.Empty(session.History)
}

func (s *OrchestratorSuite) TestMissingSectionImprovises() {
	session, character := s.snapshot()
	s.expectGet(session, character)
	s.retriever.EXPECT().
		GetSection(gomock.Any(), "citadel", 5).
		Return(nil, errors.NotFound("section not indexed"))

	var prompt *narrative.Request
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *narrative.Request) (*narrative.Response, error) {
			prompt = req
			return &narrative.Response{Narrative: "Você avança com cautela.", Improvised: true}, nil
		})
	s.expectSave()

	out, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "olho ao redor",
	})
	s.Require().NoError(err)

	s.True(out.Success)
	s.True(out.Improvised)
	s.Require().NotNil(prompt)
	s.Nil(prompt.Section)
}

func (s *OrchestratorSuite) TestWrongUserRejected() {
	session, character := s.snapshot()
	s.expectGet(session, character)

	_, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "someone-else",
		ActionText: "pego a chave bronze",
	})
	s.Require().Error(err)
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(err))
}

func (s *OrchestratorSuite) TestTerminalSessionRejectsTurns() {
	session, character := s.snapshot()
	session.Status = entities.StatusDead
	s.expectGet(session, character)

	_, err := s.orchestrator.ProcessTurn(s.ctx, &gamesvc.ProcessTurnInput{
		SessionID:  "sess_1",
		UserID:     "user-1",
		ActionText: "pego a chave bronze",
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorSuite) TestGetSessionReturnsSnapshot() {
	session, character := s.snapshot()
	s.expectGet(session, character)

	out, err := s.orchestrator.GetSession(s.ctx, &gamesvc.GetSessionInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(session, out.Session)
	s.Equal(character, out.Character)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}
