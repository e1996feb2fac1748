package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yatra-backend/internal/models"
	"yatra-backend/internal/services"
)

type stubGenerator struct {
	text   string
	chunks []string
	err    error
	// failAfter > 0 makes Stream fail after that many chunks.
	failAfter int

	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	g.calls++
	if g.err != nil {
		return models.ModelResponse{}, g.err
	}
	return models.ModelResponse{Text: g.text}, nil
}

func (g *stubGenerator) Stream(ctx context.Context, req models.ModelRequest, onChunk func(string) error) error {
	g.calls++
	if g.err != nil && g.failAfter == 0 {
		return g.err
	}
	for i, c := range g.chunks {
		if g.failAfter > 0 && i == g.failAfter {
			return g.err
		}
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return nil
}

var testGeneration = models.GenerationConfig{Temperature: 0.7, MaxOutputTokens: 1000, TopP: 0.95}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got content type %q", ct)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected non-empty error field")
	}
	return resp
}

// ─── Budget ───

func newBudgetHandler(gen *stubGenerator) *BudgetHandler {
	return NewBudgetHandler(services.NewBudgetService(gen, "gemini-1.5-flash", testGeneration))
}

func TestBudgetHandler_Success(t *testing.T) {
	text := "## Transportation\n## Accommodation\n## Food and dining\n## Activities and sightseeing\n## Miscellaneous expenses"
	gen := &stubGenerator{text: text}

	rr := postJSON(t, newBudgetHandler(gen).Estimate, "/api/budget", models.BudgetRequest{
		Destination: "Goa", Duration: 7, Travelers: 2, TravelStyle: models.StyleModerate,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.ResultResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Result != text {
		t.Errorf("unexpected result %q", resp.Result)
	}
}

func TestBudgetHandler_ValidBoundaries(t *testing.T) {
	for _, req := range []models.BudgetRequest{
		{Destination: "Leh", Duration: 1, Travelers: 1, TravelStyle: models.StyleBudget},
		{Destination: "Leh", Duration: 30, Travelers: 10, TravelStyle: models.StyleLuxury},
	} {
		gen := &stubGenerator{text: "estimate"}
		rr := postJSON(t, newBudgetHandler(gen).Estimate, "/api/budget", req)
		if rr.Code != http.StatusOK {
			t.Errorf("%+v: expected 200, got %d", req, rr.Code)
		}
	}
}

func TestBudgetHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing destination", `{"duration":7,"travelers":2,"travelStyle":"moderate"}`},
		{"missing duration", `{"destination":"Goa","travelers":2,"travelStyle":"moderate"}`},
		{"missing travelers", `{"destination":"Goa","duration":7,"travelStyle":"moderate"}`},
		{"missing style", `{"destination":"Goa","duration":7,"travelers":2}`},
		{"empty body", `{}`},
		{"out of range", `{"destination":"Goa","duration":45,"travelers":2,"travelStyle":"moderate"}`},
		{"bad style", `{"destination":"Goa","duration":4,"travelers":2,"travelStyle":"royal"}`},
		{"malformed json", `{"destination":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{text: "unused"}
			rr := postJSON(t, newBudgetHandler(gen).Estimate, "/api/budget", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			decodeError(t, rr)
			if gen.calls != 0 {
				t.Errorf("model gateway must not be invoked, got %d calls", gen.calls)
			}
		})
	}
}

func TestBudgetHandler_UpstreamFailureIsGeneric(t *testing.T) {
	gen := &stubGenerator{err: &services.UpstreamError{Op: "generate", Err: errors.New("quota exceeded for project 1234")}}

	rr := postJSON(t, newBudgetHandler(gen).Estimate, "/api/budget", models.BudgetRequest{
		Destination: "Goa", Duration: 7, Travelers: 2, TravelStyle: models.StyleModerate,
	})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Error != budgetFailedMsg {
		t.Errorf("expected generic message, got %q", resp.Error)
	}
	if strings.Contains(rr.Body.String(), "quota") {
		t.Errorf("upstream detail leaked to client")
	}
}

func TestBudgetHandler_GatewaySaturated(t *testing.T) {
	gen := &stubGenerator{err: services.ErrRateSlotTimeout}

	rr := postJSON(t, newBudgetHandler(gen).Estimate, "/api/budget", models.BudgetRequest{
		Destination: "Goa", Duration: 7, Travelers: 2, TravelStyle: models.StyleModerate,
	})
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
}

// ─── Chat / Language ───

func newChatHandler(gen *stubGenerator, persona services.Persona) *ChatHandler {
	return NewChatHandler(services.NewChatService(gen, "gemini-2.0-flash", persona, testGeneration), persona.Name)
}

func TestChatHandler_StreamsPlainText(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"## Hindi\n", "* **धन्यवाद** (DHUN-yuh-vaad)", " - \"Thank you\""}}

	rr := postJSON(t, newChatHandler(gen, services.PersonaLanguage).Stream, "/api/language", models.ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "How do I say thank you in Hindi?"}},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	want := "## Hindi\n* **धन्यवाद** (DHUN-yuh-vaad) - \"Thank you\""
	if rr.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rr.Body.String())
	}
	if !rr.Flushed {
		t.Errorf("expected chunks to be flushed")
	}
}

func TestChatHandler_NoUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.ChatMessage
	}{
		{"empty history", nil},
		{"assistant only", []models.ChatMessage{{Role: models.RoleAssistant, Content: "Hi!"}}},
		{"system only", []models.ChatMessage{{Role: models.RoleSystem, Content: "rules"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{chunks: []string{"unused"}}
			rr := postJSON(t, newChatHandler(gen, services.PersonaTravel).Stream, "/api/chat", models.ChatRequest{Messages: tc.messages})

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Error != "No user message found" {
				t.Errorf("unexpected error %q", resp.Error)
			}
			if gen.calls != 0 {
				t.Errorf("provider must not be called, got %d calls", gen.calls)
			}
		})
	}
}

func TestChatHandler_MalformedBody(t *testing.T) {
	gen := &stubGenerator{}
	rr := postJSON(t, newChatHandler(gen, services.PersonaTravel).Stream, "/api/chat", `{"messages": "nope"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	decodeError(t, rr)
}

func TestChatHandler_FailureBeforeFirstChunk(t *testing.T) {
	gen := &stubGenerator{err: &services.UpstreamError{Op: "stream", Err: services.ErrEmptyCompletion}}

	rr := postJSON(t, newChatHandler(gen, services.PersonaTravel).Stream, "/api/chat", models.ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "Best beaches?"}},
	})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error != chatFailedMsg {
		t.Errorf("expected generic message, got %q", resp.Error)
	}
}

func TestChatHandler_FailureMidStreamTruncates(t *testing.T) {
	gen := &stubGenerator{
		chunks:    []string{"Kerala is ", "lovely", " never sent"},
		failAfter: 2,
		err:       errors.New("connection reset"),
	}

	rr := postJSON(t, newChatHandler(gen, services.PersonaTravel).Stream, "/api/chat", models.ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "Tell me about Kerala"}},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status is committed once streaming starts, got %d", rr.Code)
	}
	if rr.Body.String() != "Kerala is lovely" {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}

// ─── System ───

func TestCheckAPIKey(t *testing.T) {
	h := NewSystemHandler(func() string { return "set" }, "missing")
	rr := httptest.NewRecorder()
	h.CheckAPIKey(rr, httptest.NewRequest(http.MethodGet, "/api/check-api-key", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var status models.APIKeyStatus
	if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !status.Success || status.Message == "" {
		t.Errorf("unexpected status %+v", status)
	}

	h = NewSystemHandler(func() string { return "" }, "missing")
	rr = httptest.NewRecorder()
	h.CheckAPIKey(rr, httptest.NewRequest(http.MethodGet, "/api/check-api-key", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error != "missing" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestSuggestDestinations(t *testing.T) {
	h := NewSystemHandler(func() string { return "set" }, "missing")
	rr := httptest.NewRecorder()
	h.SuggestDestinations(rr, httptest.NewRequest(http.MethodGet, "/api/destinations/suggest?q=go", nil))

	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0] != "Goa" {
		t.Errorf("expected [Goa], got %v", body.Suggestions)
	}
}
