package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	"github.com/lcampanari/gamebook-api/internal/repositories/session"
	"github.com/lcampanari/gamebook-api/internal/testutils"
)

type RedisRepositorySuite struct {
	suite.Suite
	repo    session.Repository
	clock   *clock.Fixed
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositorySuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	var err error
	s.repo, err = session.NewRedisRepository(&session.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
}

func (s *RedisRepositorySuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositorySuite) newSnapshot() (*entities.Session, *entities.Character) {
	return &entities.Session{
			ID:             "sess_1",
			UserID:         "user_1",
			BookID:         "warrior-of-blood",
			CurrentSection: 1,
			FinalSection:   400,
			Status:         entities.StatusActive,
			Inventory:      []string{"ESPADA"},
		}, &entities.Character{
			ID:      "char_1",
			UserID:  "user_1",
			Skill:   9,
			Stamina: 18,
			Luck:    10,
		}
}

func (s *RedisRepositorySuite) TestCreateAndGet() {
	sess, char := s.newSnapshot()

	out, err := s.repo.Create(s.ctx, session.CreateInput{Session: sess, Character: char})
	s.Require().NoError(err)
	s.Equal(int64(1), out.Session.Version)

	loaded, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Equal("warrior-of-blood", loaded.Session.BookID)
	s.Equal(18, loaded.Character.Stamina)
	s.Equal(s.clock.Now(), loaded.Session.CreatedAt)
}

func (s *RedisRepositorySuite) TestCreateDuplicate() {
	sess, char := s.newSnapshot()
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: sess, Character: char})
	s.Require().NoError(err)

	sess2, char2 := s.newSnapshot()
	_, err = s.repo.Create(s.ctx, session.CreateInput{Session: sess2, Character: char2})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositorySuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositorySuite) TestSaveCommitsBothRecords() {
	sess, char := s.newSnapshot()
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: sess, Character: char})
	s.Require().NoError(err)

	loaded, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)

	loaded.Session.CurrentSection = 5
	loaded.Session.TurnNumber = 1
	loaded.Character.Stamina = 14

	s.clock.Advance(time.Minute)

	out, err := s.repo.Save(s.ctx, session.SaveInput{
		Session:   loaded.Session,
		Character: loaded.Character,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), out.Version)

	reloaded, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(5, reloaded.Session.CurrentSection)
	s.Equal(14, reloaded.Character.Stamina)
	s.Equal(int64(2), reloaded.Session.Version)
	s.Equal(s.clock.Now(), reloaded.Session.UpdatedAt)
}

func (s *RedisRepositorySuite) TestSaveStaleVersionAborts() {
	sess, char := s.newSnapshot()
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: sess, Character: char})
	s.Require().NoError(err)

	first, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	second, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)

	_, err = s.repo.Save(s.ctx, session.SaveInput{Session: first.Session, Character: first.Character})
	s.Require().NoError(err)

	// Second writer still holds version 1
	second.Session.CurrentSection = 99
	_, err = s.repo.Save(s.ctx, session.SaveInput{Session: second.Session, Character: second.Character})
	s.Require().Error(err)
	s.Equal(errors.CodeAborted, errors.GetCode(err))

	reloaded, err := s.repo.Get(s.ctx, session.GetInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.NotEqual(99, reloaded.Session.CurrentSection)
}

func (s *RedisRepositorySuite) TestSaveMissingSession() {
	sess, char := s.newSnapshot()
	sess.Version = 1

	_, err := s.repo.Save(s.ctx, session.SaveInput{Session: sess, Character: char})
	s.True(errors.IsNotFound(err))
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositorySuite))
}
