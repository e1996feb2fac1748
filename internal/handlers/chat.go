package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"yatra-backend/internal/middleware"
	"yatra-backend/internal/models"
)

const chatFailedMsg = "There was an error processing your request"

type replier interface {
	Reply(ctx context.Context, messages []models.ChatMessage, onChunk func(string) error) error
}

// ChatHandler serves one conversational endpoint. The same handler type backs
// both the travel chat and the language guide.
type ChatHandler struct {
	chatService replier
	endpoint    string
}

func NewChatHandler(chatService replier, endpoint string) *ChatHandler {
	return &ChatHandler{chatService: chatService, endpoint: endpoint}
}

// Stream writes the completion as plain UTF-8 text, flushing every chunk.
// Failures before the first chunk are answered with a JSON {error} and a
// non-2xx status; after that the stream is cut short and the failure logged.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body", r))
		return
	}

	sw := &streamWriter{w: w, rc: http.NewResponseController(w)}
	err := h.chatService.Reply(r.Context(), req.Messages, sw.write)
	if err == nil {
		if !sw.started {
			sw.start()
		}
		return
	}

	if !sw.started {
		handleServiceError(w, r, h.endpoint, chatFailedMsg, err)
		return
	}

	event := log.Error()
	if errors.Is(err, context.Canceled) {
		event = log.Info()
	}
	event.Err(err).
		Str("endpoint", h.endpoint).
		Int("bytes_sent", sw.written).
		Str("request_id", r.Header.Get(middleware.RequestIDHeader)).
		Msg("stream interrupted")
}

type streamWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
	written int
}

func (s *streamWriter) start() {
	h := s.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}

func (s *streamWriter) write(chunk string) error {
	if !s.started {
		s.start()
	}
	n, err := io.WriteString(s.w, chunk)
	s.written += n
	if err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
