// Package session holds the transient message list of one chat window.
// Nothing here is persisted; a Conversation lives as long as its owner.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"yatra-backend/internal/models"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const WelcomeMessageID = "welcome-message"

var (
	ErrBusy            = errors.New("a request is already in flight")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrPlaceholderOpen = errors.New("an assistant placeholder is already open")
	ErrNoPlaceholder   = errors.New("no open assistant placeholder")
)

type Conversation struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	open     int // index of the open assistant placeholder, -1 when none
	status   Status
	lastErr  error
	newID    func() string
}

// NewConversation starts a conversation, seeded with an assistant welcome
// message when welcome is non-empty.
func NewConversation(welcome string) *Conversation {
	c := &Conversation{
		open:   -1,
		status: StatusIdle,
		newID:  newMessageID,
	}
	if welcome != "" {
		c.messages = append(c.messages, models.ChatMessage{
			ID:      WelcomeMessageID,
			Role:    models.RoleAssistant,
			Content: welcome,
		})
	}
	return c
}

// Time-ordered ids so message order can be recovered from ids alone.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Begin moves the conversation into loading. Only one submission may be in
// flight at a time.
func (c *Conversation) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusLoading {
		return ErrBusy
	}
	c.status = StatusLoading
	c.lastErr = nil
	return nil
}

// Finish ends the in-flight submission and closes any open placeholder.
func (c *Conversation) Finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = -1
	if err != nil {
		c.status = StatusError
		c.lastErr = err
		return
	}
	c.status = StatusSuccess
}

// Dismiss clears a displayed error and returns to idle.
func (c *Conversation) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusLoading {
		c.status = StatusIdle
		c.lastErr = nil
	}
}

func (c *Conversation) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Conversation) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Conversation) AppendUser(content string) (models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := models.ChatMessage{ID: c.newID(), Role: models.RoleUser, Content: content}
	c.messages = append(c.messages, msg)
	return msg, nil
}

func (c *Conversation) AppendAssistantPlaceholder() (models.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open >= 0 {
		return models.ChatMessage{}, ErrPlaceholderOpen
	}

	msg := models.ChatMessage{ID: c.newID(), Role: models.RoleAssistant}
	c.messages = append(c.messages, msg)
	c.open = len(c.messages) - 1
	return msg, nil
}

// UpdateLastAssistant replaces the open placeholder's content with text,
// which is the cumulative completion so far.
func (c *Conversation) UpdateLastAssistant(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open < 0 {
		return ErrNoPlaceholder
	}
	c.messages[c.open].Content = text
	return nil
}

// Messages returns a copy of every message in order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// History is what gets sent upstream: every message except an open placeholder.
func (c *Conversation) History() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ChatMessage, 0, len(c.messages))
	for i, m := range c.messages {
		if i == c.open {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (c *Conversation) Last() (models.ChatMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == 0 {
		return models.ChatMessage{}, false
	}
	return c.messages[len(c.messages)-1], true
}
