package services

import (
	"context"
	"sort"
	"strings"

	"yatra-backend/internal/models"
)

// ValidateBudget enforces the form invariants before any provider call.
func ValidateBudget(req models.BudgetRequest) error {
	missing, invalid := req.Validate()
	if len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, f := range missing {
			fields[f] = "required"
		}
		return &ValidationError{Message: msgMissingParams, Fields: fields}
	}
	if len(invalid) > 0 {
		return &ValidationError{Message: msgInvalidParams + ": " + joinFieldErrors(invalid), Fields: invalid}
	}
	return nil
}

func joinFieldErrors(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return strings.Join(msgs, "; ")
}

type BudgetService struct {
	gen        Generator
	model      string
	generation models.GenerationConfig
}

func NewBudgetService(gen Generator, model string, generation models.GenerationConfig) *BudgetService {
	return &BudgetService{gen: gen, model: model, generation: generation}
}

// Estimate returns a markdown cost breakdown for the trip.
func (s *BudgetService) Estimate(ctx context.Context, req models.BudgetRequest) (string, error) {
	if err := ValidateBudget(req); err != nil {
		return "", err
	}

	resp, err := s.gen.Generate(ctx, models.ModelRequest{
		Model:      s.model,
		Prompt:     BuildBudgetPrompt(req),
		Generation: s.generation,
		Safety:     models.DefaultSafety(),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ChatService answers a conversation in the voice of one persona.
type ChatService struct {
	gen        Generator
	model      string
	persona    Persona
	generation models.GenerationConfig
}

func NewChatService(gen Generator, model string, persona Persona, generation models.GenerationConfig) *ChatService {
	return &ChatService{gen: gen, model: model, persona: persona, generation: generation}
}

func (s *ChatService) Persona() Persona { return s.persona }

// Reply streams the assistant's answer to the latest user message.
func (s *ChatService) Reply(ctx context.Context, messages []models.ChatMessage, onChunk func(string) error) error {
	last, ok := models.ChatRequest{Messages: messages}.LastUserMessage()
	if !ok {
		return &ValidationError{Message: msgNoUserMessage}
	}

	return s.gen.Stream(ctx, models.ModelRequest{
		Model:      s.model,
		Prompt:     BuildConversationPrompt(s.persona, messages, last),
		Generation: s.generation,
		Safety:     models.DefaultSafety(),
	}, onChunk)
}
