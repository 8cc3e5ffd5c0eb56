// Package model defines the content shown inside popups.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/poptui/internal/popup"
)

// Message is a single popup's content plus its lifecycle timestamps.
type Message struct {
	ID     string     `json:"id" yaml:"id"`
	Title  string     `json:"title" yaml:"title"`
	Body   string     `json:"body" yaml:"body"`
	Footer string     `json:"footer,omitempty" yaml:"footer,omitempty"`
	Kind   popup.Kind `json:"kind" yaml:"kind"`

	CreatedAt int64 `json:"created_at" yaml:"created_at"`
	ShownAt   int64 `json:"shown_at,omitempty" yaml:"shown_at,omitempty"`
	HiddenAt  int64 `json:"hidden_at,omitempty" yaml:"hidden_at,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID    = errors.New("id cannot be empty")
	ErrEmptyTitle = errors.New("title cannot be empty")
	ErrBadKind    = errors.New("kind is not a known transition")
)

// NewMessage creates a Message with a generated ULID.
func NewMessage(title, body string, kind popup.Kind) (*Message, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Message{
		ID:        id.String(),
		Title:     title,
		Body:      body,
		Kind:      kind,
		CreatedAt: now.Unix(),
	}, nil
}

// Validate checks that the message has all required fields.
func (m *Message) Validate() error {
	if m.ID == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := m.Kind.MarshalText(); err != nil {
		return ErrBadKind
	}
	return nil
}

// RelativeTime returns how long ago the message was created, relative to
// now. Examples: "now", "5 minutes ago".
func (m *Message) RelativeTime(now time.Time) string {
	return humanize.RelTime(m.CreatedTime(), now, "ago", "from now")
}

// BodyTruncated returns the body collapsed to one line and cut to maxWidth
// cells, with an ellipsis when shortened.
func (m *Message) BodyTruncated(maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	body := strings.Join(strings.Fields(m.Body), " ")
	if ansi.StringWidth(body) <= maxWidth {
		return body
	}
	if maxWidth <= 3 {
		return ansi.Truncate(body, maxWidth, "")
	}
	return ansi.Truncate(body, maxWidth, "...")
}

// Text returns the plain text used for clipboard copies.
func (m *Message) Text() string {
	parts := []string{m.Title}
	if m.Body != "" {
		parts = append(parts, m.Body)
	}
	if m.Footer != "" {
		parts = append(parts, m.Footer)
	}
	return strings.Join(parts, "\n\n")
}

// CreatedTime returns the creation timestamp as a time.Time.
func (m *Message) CreatedTime() time.Time {
	return time.Unix(m.CreatedAt, 0)
}

// Clone creates a copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	return &clone
}

// IsShown returns true if the message has been presented at least once.
func (m *Message) IsShown() bool {
	return m.ShownAt > 0
}

// IsHidden returns true if the message was presented and then hidden.
func (m *Message) IsHidden() bool {
	return m.HiddenAt > 0
}

// MarkShown records the first presentation time.
func (m *Message) MarkShown() {
	if m.ShownAt == 0 {
		m.ShownAt = time.Now().Unix()
	}
}

// MarkHidden records when the message was hidden. Hiding implies showing.
func (m *Message) MarkHidden() {
	m.HiddenAt = time.Now().Unix()
	if m.ShownAt == 0 {
		m.ShownAt = m.HiddenAt
	}
}
