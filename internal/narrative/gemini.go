package narrative

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/lcampanari/gamebook-api/internal/clients/gemini"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

//go:embed prompts/narrate.tmpl
var narratePrompt string

//go:embed prompts/improvise.tmpl
var improvisePrompt string

var (
	narrateTmpl   = template.Must(template.New("narrate").Parse(narratePrompt))
	improviseTmpl = template.Must(template.New("improvise").Parse(improvisePrompt))
)

// GeminiConfig holds the dependencies for the Gemini narrator
type GeminiConfig struct {
	Client gemini.Client
}

// Validate ensures all required dependencies are provided
func (c *GeminiConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("gemini client is required")
	}
	return nil
}

type geminiGenerator struct {
	client gemini.Client
}

// NewGeminiGenerator creates the production narrator
func NewGeminiGenerator(cfg *GeminiConfig) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &geminiGenerator{client: cfg.Client}, nil
}

var _ Generator = (*geminiGenerator)(nil)

// promptData flattens the request for the templates
type promptData struct {
	BookTitle     string
	SectionNumber int
	SectionText   string
	Exits         []int
	NPCs          []string
	ActionType    entities.ActionType
	ActionRaw     string
	Facts         []string
	Stats         entities.StatSnapshot
}

func (g *geminiGenerator) Generate(ctx context.Context, request *Request) (*Response, error) {
	if request == nil || request.Action == nil {
		return nil, errors.InvalidArgument("request and action are required")
	}

	data := promptData{
		BookTitle:  request.BookTitle,
		ActionType: request.Action.Type,
		ActionRaw:  request.Action.Raw,
		Facts:      request.Facts,
		Stats:      request.Stats,
	}

	tmpl := improviseTmpl
	improvised := true
	if request.Section != nil {
		tmpl = narrateTmpl
		improvised = false
		data.SectionNumber = request.Section.Number
		data.SectionText = request.Section.Text
		data.Exits = request.Section.Exits
		data.NPCs = request.Section.NPCs
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to render prompt")
	}

	text, err := g.client.GenerateText(ctx, buf.String())
	if err != nil {
		return nil, errors.Wrap(err, "narration failed")
	}

	return &Response{Narrative: text, Improvised: improvised}, nil
}
