package bookstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
)

const (
	// Key patterns:
	//   book_section:{bookId}:{number}   section JSON
	//   book_embedding:{bookId}:{number} embedding JSON
	//   book_index:{bookId}              set of section numbers
	sectionKeyPrefix   = "book_section:"
	embeddingKeyPrefix = "book_embedding:"
	indexKeyPrefix     = "book_index:"
)

// Config holds the configuration for the Redis store
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisStore struct {
	client redisclient.Client
}

// NewRedisStore creates a Redis-backed book store
func NewRedisStore(cfg *Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &redisStore{client: cfg.Client}, nil
}

var _ Store = (*redisStore)(nil)

func (s *redisStore) GetSection(ctx context.Context, input *GetSectionInput) (*GetSectionOutput, error) {
	if input.BookID == "" {
		return nil, errors.InvalidArgument("book ID cannot be empty")
	}

	data, err := s.client.Get(ctx, sectionKey(input.BookID, input.SectionNumber)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("section %d not indexed for book %s", input.SectionNumber, input.BookID)
		}
		return nil, errors.Wrapf(err, "failed to load section %d of %s", input.SectionNumber, input.BookID)
	}

	var section entities.SectionContext
	if err := json.Unmarshal([]byte(data), &section); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal section %d of %s", input.SectionNumber, input.BookID)
	}

	return &GetSectionOutput{Section: &section}, nil
}

func (s *redisStore) SearchMarker(ctx context.Context, input *SearchMarkerInput) (*SearchMarkerOutput, error) {
	if input.BookID == "" {
		return nil, errors.InvalidArgument("book ID cannot be empty")
	}

	marker := fmt.Sprintf("seção %d", input.SectionNumber)
	leading := strconv.Itoa(input.SectionNumber) + "\n"

	var fallback *entities.SectionContext

	sections, err := s.allSections(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	for _, section := range sections {
		text := strings.ToLower(section.Text)
		if strings.HasPrefix(text, strings.ToLower(marker)) || strings.HasPrefix(section.Text, leading) {
			return &SearchMarkerOutput{Section: section}, nil
		}
		if fallback == nil && strings.Contains(text, strings.ToLower(marker)) {
			fallback = section
		}
	}

	if fallback != nil {
		return &SearchMarkerOutput{Section: fallback}, nil
	}
	return nil, errors.NotFoundf("no section of %s carries marker %q", input.BookID, marker)
}

func (s *redisStore) SearchSemantic(ctx context.Context, input *SearchSemanticInput) (*SearchSemanticOutput, error) {
	if input.BookID == "" {
		return nil, errors.InvalidArgument("book ID cannot be empty")
	}
	if len(input.Embedding) == 0 {
		return nil, errors.InvalidArgument("query embedding cannot be empty")
	}

	numbers, err := s.indexedNumbers(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	best := &SearchSemanticOutput{Similarity: -1}
	for _, number := range numbers {
		data, err := s.client.Get(ctx, embeddingKey(input.BookID, number)).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load embedding for section %d", number)
		}

		var embedding []float32
		if err := json.Unmarshal([]byte(data), &embedding); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal embedding for section %d", number)
		}

		similarity := cosineSimilarity(input.Embedding, embedding)
		if similarity > best.Similarity {
			out, err := s.GetSection(ctx, &GetSectionInput{BookID: input.BookID, SectionNumber: number})
			if err != nil {
				return nil, err
			}
			best.Section = out.Section
			best.Similarity = similarity
		}
	}

	if best.Section == nil {
		return nil, errors.NotFoundf("no embeddings indexed for book %s", input.BookID)
	}
	return best, nil
}

func (s *redisStore) PutSection(ctx context.Context, input *PutSectionInput) (*PutSectionOutput, error) {
	if input.Section == nil {
		return nil, errors.InvalidArgument("section cannot be nil")
	}
	if input.Section.BookID == "" {
		return nil, errors.InvalidArgument("section book ID cannot be empty")
	}

	data, err := json.Marshal(input.Section)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal section")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sectionKey(input.Section.BookID, input.Section.Number), data, 0)
	pipe.SAdd(ctx, indexKeyPrefix+input.Section.BookID, input.Section.Number)
	if len(input.Embedding) > 0 {
		embeddingJSON, err := json.Marshal(input.Embedding)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal embedding")
		}
		pipe.Set(ctx, embeddingKey(input.Section.BookID, input.Section.Number), embeddingJSON, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to index section %d", input.Section.Number)
	}

	return &PutSectionOutput{}, nil
}

func (s *redisStore) indexedNumbers(ctx context.Context, bookID string) ([]int, error) {
	members, err := s.client.SMembers(ctx, indexKeyPrefix+bookID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index for book %s", bookID)
	}

	numbers := make([]int, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, errors.Internalf("corrupt index entry %q for book %s", m, bookID)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func (s *redisStore) allSections(ctx context.Context, bookID string) ([]*entities.SectionContext, error) {
	numbers, err := s.indexedNumbers(ctx, bookID)
	if err != nil {
		return nil, err
	}

	sections := make([]*entities.SectionContext, 0, len(numbers))
	for _, number := range numbers {
		out, err := s.GetSection(ctx, &GetSectionInput{BookID: bookID, SectionNumber: number})
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		sections = append(sections, out.Section)
	}
	return sections, nil
}

func sectionKey(bookID string, number int) string {
	return sectionKeyPrefix + bookID + ":" + strconv.Itoa(number)
}

func embeddingKey(bookID string, number int) string {
	return embeddingKeyPrefix + bookID + ":" + strconv.Itoa(number)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
