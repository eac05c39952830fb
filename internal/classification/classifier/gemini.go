package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ewaste_pickup_backend/internal/classification/domain"
	"ewaste_pickup_backend/platform/logger"

	"google.golang.org/genai"
)

var errEmptyAnswer = errors.New("empty response from model")

// Generator sends one prompt plus image to a vision model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string, img domain.Image) (string, error)
}

// GenAIGenerator calls Gemini through google.golang.org/genai.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, prompt string, img domain.Image) (string, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: img.ContentType, Data: img.Data}},
			genai.NewPartFromText(prompt),
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyAnswer
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// Remote classifies with a vision model, retrying failed calls.
type Remote struct {
	gen      Generator
	attempts int
	backoff  time.Duration
	log      *logger.Logger
}

func NewRemote(gen Generator, log *logger.Logger) *Remote {
	return &Remote{gen: gen, attempts: 3, backoff: time.Second, log: log}
}

// Classify never returns an error for model failures; it returns a Failed result instead.
func (r *Remote) Classify(ctx context.Context, img domain.Image) (domain.Result, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		text, err := r.gen.Generate(ctx, classificationPrompt, img)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyAnswer
		}
		if err == nil {
			res := parseAnswer(text)
			r.log.Debug("remote classification", "deviceType", res.DeviceType, "confidence", res.Confidence, "attempt", attempt)
			return res, nil
		}

		lastErr = err
		r.log.Warn("remote classification attempt failed", "attempt", attempt, "error", err)
		if attempt == r.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return domain.FailedResult(ctx.Err()), nil
		case <-time.After(r.backoff):
		}
	}
	return domain.FailedResult(lastErr), nil
}
