package bookstore

import (
	"context"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

// Book is the YAML shape a gamebook is authored in
type Book struct {
	ID           string       `yaml:"id"`
	Title        string       `yaml:"title"`
	FinalSection int          `yaml:"final_section"`
	Sections     []SectionDef `yaml:"sections"`
}

// SectionDef is one authored section
type SectionDef struct {
	Number        int      `yaml:"number"`
	Text          string   `yaml:"text"`
	Exits         []int    `yaml:"exits"`
	NPCs          []string `yaml:"npcs"`
	Items         []string `yaml:"items"`
	RequiredItems []string `yaml:"required_items"`
	Combat        *struct {
		EnemyName    string `yaml:"enemy_name"`
		EnemySkill   int    `yaml:"enemy_skill"`
		EnemyStamina int    `yaml:"enemy_stamina"`
	} `yaml:"combat"`
	Test *struct {
		Kind     string `yaml:"kind"`
		Modifier int    `yaml:"modifier"`
		Required bool   `yaml:"required"`
	} `yaml:"test"`
}

// LoadBook parses a gamebook from YAML
func LoadBook(r io.Reader) (*Book, error) {
	var book Book
	if err := yaml.NewDecoder(r).Decode(&book); err != nil {
		return nil, errors.Wrap(err, "failed to parse book YAML")
	}
	if book.ID == "" {
		return nil, errors.InvalidArgument("book is missing an id")
	}
	if len(book.Sections) == 0 {
		return nil, errors.InvalidArgument("book has no sections")
	}
	return &book, nil
}

// LoadBookFile parses a gamebook from a YAML file on disk
func LoadBookFile(path string) (*Book, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open book file %s", path)
	}
	defer func() { _ = f.Close() }()
	return LoadBook(f)
}

// Section converts an authored section to its retrieval form
func (d *SectionDef) Section(bookID string) *entities.SectionContext {
	section := &entities.SectionContext{
		BookID:        bookID,
		Number:        d.Number,
		Text:          d.Text,
		Exits:         d.Exits,
		NPCs:          d.NPCs,
		Items:         d.Items,
		RequiredItems: d.RequiredItems,
	}
	if d.Combat != nil {
		section.Combat = &entities.CombatSpec{
			EnemyName:    d.Combat.EnemyName,
			EnemySkill:   d.Combat.EnemySkill,
			EnemyStamina: d.Combat.EnemyStamina,
		}
	}
	if d.Test != nil {
		section.Test = &entities.TestSpec{
			Kind:     d.Test.Kind,
			Modifier: d.Test.Modifier,
			Required: d.Test.Required,
		}
	}
	return section
}

// Embedder produces embeddings during indexing. Optional: without one,
// semantic search simply stays empty for the book.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IndexBook writes every section of the book into the store, embedding
// each section's text when an embedder is provided.
func IndexBook(ctx context.Context, store Store, book *Book, embedder Embedder) error {
	for i := range book.Sections {
		def := &book.Sections[i]
		input := &PutSectionInput{Section: def.Section(book.ID)}

		if embedder != nil {
			embedding, err := embedder.Embed(ctx, def.Text)
			if err != nil {
				return errors.Wrapf(err, "failed to embed section %d", def.Number)
			}
			input.Embedding = embedding
		}

		if _, err := store.PutSection(ctx, input); err != nil {
			return err
		}
	}
	return nil
}
