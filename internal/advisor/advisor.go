// Package advisor produces assistant replies for the financial-advisor chat,
// either from local heuristics or a remote streaming backend.
package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"finsim/internal/i18n"
	"finsim/internal/model"
)

// Conversation-level errors.
var (
	// ErrBusy indicates a send was attempted while a reply is in flight.
	ErrBusy = errors.New("advisor: a reply is already in flight")
	// ErrEmptyMessage indicates the message was blank after trimming.
	ErrEmptyMessage = errors.New("advisor: empty message")
)

// Request carries one user message plus the redacted state snapshot used to
// contextualize the reply.
type Request struct {
	Message  string
	Language i18n.Language
	State    model.AdvisorState
}

// Fragment is one piece of a streamed reply. Err, when set, terminates the
// stream; any text already delivered remains valid.
type Fragment struct {
	Text string
	Err  error
}

// Responder produces reply fragments for a request. The returned channel is
// closed when the reply is complete. An immediate error means no reply was
// started at all.
type Responder interface {
	Respond(ctx context.Context, req Request) (<-chan Fragment, error)
}

// Conversation holds the session-scoped chat history and enforces the
// one-in-flight rule. Safe for concurrent use.
type Conversation struct {
	responder Responder
	lang      i18n.Language

	mu       sync.Mutex
	msgs     []model.ChatMessage
	nextID   int64
	inFlight bool
	streamTo int64 // id of the assistant message receiving chunks, 0 if none
}

// NewConversation creates an empty conversation backed by the responder.
func NewConversation(r Responder, lang i18n.Language) *Conversation {
	return &Conversation{responder: r, lang: lang}
}

// Greet appends the opening assistant message for a fresh session.
func (c *Conversation) Greet(state model.AdvisorState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(model.RoleAssistant, i18n.Greeting(c.lang, state.Month, state.StabilityIndex))
}

// Messages returns a copy of the conversation so far.
func (c *Conversation) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// InFlight reports whether a reply is currently streaming.
func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Clear drops the session history. No-op while a reply is in flight.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.msgs = nil
	c.streamTo = 0
}

// Send appends the user message and starts assembling the assistant reply.
// It returns as soon as the user turn is recorded; the responder call runs
// on its own goroutine so a slow transport never stalls the caller. The
// returned channel closes when the reply (or the apology substituted on
// failure) is fully appended. Transport and upstream failures never surface
// as errors here; they become a normal assistant turn.
func (c *Conversation) Send(ctx context.Context, text string, state model.AdvisorState) (<-chan struct{}, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.inFlight = true
	c.streamTo = 0
	c.append(model.RoleUser, trimmed)
	c.mu.Unlock()

	done := make(chan struct{})

	go func() {
		defer close(done)

		frags, err := c.responder.Respond(ctx, Request{Message: trimmed, Language: c.lang, State: state})
		if err != nil {
			c.finish(i18n.Apology(c.lang, err.Error()))
			return
		}

		for frag := range frags {
			if frag.Err != nil {
				c.finish(i18n.Apology(c.lang, frag.Err.Error()))
				return
			}
			c.appendChunk(frag.Text)
		}
		c.mu.Lock()
		c.inFlight = false
		c.streamTo = 0
		c.mu.Unlock()
	}()

	return done, nil
}

// appendChunk grows the streaming assistant message, creating it on the
// first chunk.
func (c *Conversation) appendChunk(text string) {
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.streamTo != 0 && len(c.msgs) > 0 && c.msgs[len(c.msgs)-1].ID == c.streamTo {
		c.msgs[len(c.msgs)-1].Content += text
		return
	}
	c.streamTo = c.append(model.RoleAssistant, text)
}

// finish appends a terminal assistant message and clears the in-flight flag.
func (c *Conversation) finish(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(model.RoleAssistant, content)
	c.inFlight = false
	c.streamTo = 0
}

// append adds a message and returns its id. Caller holds the lock.
func (c *Conversation) append(role model.ChatRole, content string) int64 {
	c.nextID++
	c.msgs = append(c.msgs, model.ChatMessage{
		ID:        c.nextID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return c.nextID
}

