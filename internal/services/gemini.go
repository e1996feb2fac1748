package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"yatra-backend/internal/models"
)

// Generator is the model gateway seen by the trip services.
type Generator interface {
	Generate(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error)
	Stream(ctx context.Context, req models.ModelRequest, onChunk func(string) error) error
}

type GeminiService struct {
	keySource func() string
	slotWait  time.Duration
	rateChan  chan struct{} // Token bucket

	mu      sync.Mutex
	client  *genai.Client
	key     string
	retired []*genai.Client
}

// NewGeminiService builds a gateway that resolves its credential through
// keySource on every call and keeps at most concurrentReqs calls in flight.
func NewGeminiService(keySource func() string, concurrentReqs int) *GeminiService {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		keySource: keySource,
		slotWait:  2 * time.Minute,
		rateChan:  rateChan,
	}
}

func (s *GeminiService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	for _, c := range s.retired {
		c.Close()
	}
	s.retired = nil
}

// clientFor returns a client bound to the current credential, replacing the
// cached one when the key has rotated.
func (s *GeminiService) clientFor(ctx context.Context) (*genai.Client, error) {
	key := s.keySource()
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil && s.key == key {
		return s.client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if s.client != nil {
		// in-flight calls may still hold the old client
		s.retired = append(s.retired, s.client)
	}
	s.client = client
	s.key = key
	return client, nil
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	timer := time.NewTimer(s.slotWait)
	defer timer.Stop()

	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrRateSlotTimeout
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

func (s *GeminiService) prepare(ctx context.Context, req models.ModelRequest) (*genai.GenerativeModel, error) {
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, &UpstreamError{Op: "client", Err: err}
	}

	model := client.GenerativeModel(req.Model)
	model.SetTemperature(req.Generation.Temperature)
	model.SetMaxOutputTokens(req.Generation.MaxOutputTokens)
	model.SetTopP(req.Generation.TopP)
	model.SafetySettings = safetySettings(req.Safety)
	return model, nil
}

// Generate performs a single best-effort call and returns the full completion.
func (s *GeminiService) Generate(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	if err := s.acquireRate(ctx); err != nil {
		return models.ModelResponse{}, err
	}
	defer s.releaseRate()

	model, err := s.prepare(ctx, req)
	if err != nil {
		return models.ModelResponse{}, err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return models.ModelResponse{}, &UpstreamError{Op: "generate", Err: err}
	}
	logCandidates(req.Model, resp)

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return models.ModelResponse{}, &UpstreamError{Op: "generate", Err: ErrEmptyCompletion}
	}

	return models.ModelResponse{Text: text}, nil
}

// Stream forwards completion text to onChunk as the provider produces it.
// An error from onChunk stops the stream and is returned unwrapped.
func (s *GeminiService) Stream(ctx context.Context, req models.ModelRequest, onChunk func(string) error) error {
	if err := s.acquireRate(ctx); err != nil {
		return err
	}
	defer s.releaseRate()

	model, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}

	iter := model.GenerateContentStream(ctx, genai.Text(req.Prompt))
	written := 0
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return &UpstreamError{Op: "stream", Err: err}
		}
		logCandidates(req.Model, resp)

		text := extractText(resp)
		if text == "" {
			continue
		}
		written += len(text)
		if err := onChunk(text); err != nil {
			return err
		}
	}

	if written == 0 {
		return &UpstreamError{Op: "stream", Err: ErrEmptyCompletion}
	}
	return nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func logCandidates(model string, resp *genai.GenerateContentResponse) {
	if resp == nil {
		return
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		log.Warn().Str("model", model).Str("block_reason", resp.PromptFeedback.BlockReason.String()).Msg("Gemini blocked prompt")
	}
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonUnspecified && cand.FinishReason != genai.FinishReasonStop {
			log.Warn().Str("model", model).Int("candidate", i).Str("finish_reason", cand.FinishReason.String()).Msg("Gemini stopped early")
		}
	}
}

var harmCategories = map[models.HarmCategory]genai.HarmCategory{
	models.HarmHarassment:       genai.HarmCategoryHarassment,
	models.HarmHateSpeech:       genai.HarmCategoryHateSpeech,
	models.HarmSexuallyExplicit: genai.HarmCategorySexuallyExplicit,
	models.HarmDangerousContent: genai.HarmCategoryDangerousContent,
}

var blockThresholds = map[models.BlockThreshold]genai.HarmBlockThreshold{
	models.BlockLowAndAbove:    genai.HarmBlockLowAndAbove,
	models.BlockMediumAndAbove: genai.HarmBlockMediumAndAbove,
	models.BlockOnlyHigh:       genai.HarmBlockOnlyHigh,
	models.BlockNone:           genai.HarmBlockNone,
}

// safetySettings converts thresholds to provider settings in a stable order.
// Unknown categories or thresholds are skipped.
func safetySettings(thresholds map[models.HarmCategory]models.BlockThreshold) []*genai.SafetySetting {
	keys := make([]string, 0, len(thresholds))
	for k := range thresholds {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	settings := make([]*genai.SafetySetting, 0, len(keys))
	for _, k := range keys {
		category, ok := harmCategories[models.HarmCategory(k)]
		if !ok {
			continue
		}
		threshold, ok := blockThresholds[thresholds[models.HarmCategory(k)]]
		if !ok {
			continue
		}
		settings = append(settings, &genai.SafetySetting{Category: category, Threshold: threshold})
	}
	return settings
}
