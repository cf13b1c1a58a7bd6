package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"support_desk_go/config"
	"support_desk_go/models"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var ErrDrafterUnavailable = errors.New("AI drafting is not configured")

// DraftTones are the supported reply tones
var DraftTones = []string{"professional", "friendly", "empathetic", "formal", "casual"}

const defaultDraftTone = "professional"

// chatCompleter is the subset of the OpenAI chat completion service used here
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Drafter writes suggested replies through an OpenAI-compatible chat completion API
type Drafter struct {
	client      openai.Client
	completions chatCompleter
	model       string
}

// NewDrafter creates a drafter, or returns nil when no API key is configured
func NewDrafter(cfg *config.Config) *Drafter {
	if cfg.OpenAIAPIKey == "" {
		log.Println("[WARNING] OPENAI_API_KEY not set, AI drafting disabled")
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o-mini"
	}

	d := &Drafter{client: openai.NewClient(opts...), model: model}
	d.completions = &d.client.Chat.Completions
	return d
}

// NormalizeTone returns a supported tone, defaulting to professional
func NormalizeTone(tone string) string {
	tone = strings.ToLower(strings.TrimSpace(tone))
	for _, t := range DraftTones {
		if t == tone {
			return t
		}
	}
	return defaultDraftTone
}

func draftSystemPrompt(q models.Query, tone string) string {
	return fmt.Sprintf(`You are a professional customer service representative. Generate a helpful, empathetic, and solution-oriented email response to the customer query.

Customer Details:
- Name: %s
- Email: %s
- Subject: %s
- Category: %s
- Priority: %s

Customer Message: "%s"

Response Tone: %s

Guidelines:
- Be professional and empathetic
- Address the customer by name
- Acknowledge their concern specifically
- Provide a clear solution or next steps
- Include appropriate contact information
- Keep the tone %s
- End with a professional closing`,
		q.CustomerName, q.CustomerEmail, q.Subject, q.Category, q.Priority, q.Message, tone, tone)
}

// Draft asks the model for a reply to the query in the given tone
func (d *Drafter) Draft(ctx context.Context, q models.Query, tone string) (string, error) {
	if d == nil || d.completions == nil {
		return "", ErrDrafterUnavailable
	}
	tone = NormalizeTone(tone)

	params := openai.ChatCompletionNewParams{
		Model: d.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(draftSystemPrompt(q, tone)),
			openai.UserMessage("Generate a professional email response for this customer query: " + q.Message),
		},
		MaxCompletionTokens: openai.Int(500),
		Temperature:         openai.Float(0.7),
	}

	start := time.Now()
	resp, err := d.completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty draft returned")
	}
	log.Printf("[INFO] Drafted %s reply for query %s in %dms", tone, q.ID, time.Since(start).Milliseconds())
	return content, nil
}
