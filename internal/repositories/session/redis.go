package session

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
)

const (
	// Key patterns: game_session:{id}, game_character:{id}
	sessionKeyPrefix   = "game_session:"
	characterKeyPrefix = "game_character:"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for game sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil || input.Session.ID == "" {
		return nil, errors.InvalidArgument("session with ID is required")
	}
	if input.Character == nil || input.Character.ID == "" {
		return nil, errors.InvalidArgument("character with ID is required")
	}

	now := r.clock.Now()
	input.Session.Version = 1
	input.Session.CreatedAt = now
	input.Session.UpdatedAt = now

	sessionJSON, characterJSON, err := marshalSnapshot(input.Session, input.Character)
	if err != nil {
		return nil, err
	}

	key := sessionKeyPrefix + input.Session.ID
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return errors.AlreadyExists("session " + input.Session.ID + " already exists")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, 0)
			pipe.Set(ctx, characterKeyPrefix+input.Session.ID, characterJSON, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.IsAlreadyExists(err) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to create session %s", input.Session.ID)
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKeyPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %s not found", input.SessionID)
		}
		return nil, errors.Wrapf(err, "failed to load session %s", input.SessionID)
	}

	characterJSON, err := r.client.Get(ctx, characterKeyPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.Internalf("session %s has no character record", input.SessionID)
		}
		return nil, errors.Wrapf(err, "failed to load character for session %s", input.SessionID)
	}

	var session entities.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session %s", input.SessionID)
	}
	var character entities.Character
	if err := json.Unmarshal([]byte(characterJSON), &character); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character for session %s", input.SessionID)
	}

	return &GetOutput{Session: &session, Character: &character}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Session == nil || input.Session.ID == "" {
		return nil, errors.InvalidArgument("session with ID is required")
	}
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	key := sessionKeyPrefix + input.Session.ID
	expectedVersion := input.Session.Version

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		storedJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("session %s not found", input.Session.ID)
			}
			return err
		}

		var stored entities.Session
		if err := json.Unmarshal([]byte(storedJSON), &stored); err != nil {
			return errors.Wrapf(err, "failed to unmarshal stored session %s", input.Session.ID)
		}
		if stored.Version != expectedVersion {
			return errors.Aborted("session was modified by a concurrent turn")
		}

		input.Session.Version = expectedVersion + 1
		input.Session.UpdatedAt = r.clock.Now()

		sessionJSON, characterJSON, err := marshalSnapshot(input.Session, input.Character)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, 0)
			pipe.Set(ctx, characterKeyPrefix+input.Session.ID, characterJSON, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.Aborted("session was modified by a concurrent turn")
		}
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to save session %s", input.Session.ID)
	}

	return &SaveOutput{Version: input.Session.Version}, nil
}

func marshalSnapshot(session *entities.Session, character *entities.Character) ([]byte, []byte, error) {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to marshal session")
	}
	characterJSON, err := json.Marshal(character)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to marshal character")
	}
	return sessionJSON, characterJSON, nil
}
