package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/poptui/internal/popup"
)

func TestNewMessage(t *testing.T) {
	m, err := NewMessage("Saved", "All good", popup.KindFadeIn)
	require.NoError(t, err)

	assert.Len(t, m.ID, 26)
	assert.Equal(t, "Saved", m.Title)
	assert.Equal(t, popup.KindFadeIn, m.Kind)
	assert.Greater(t, m.CreatedAt, int64(0))
	assert.NoError(t, m.Validate())

	other, err := NewMessage("Saved", "All good", popup.KindFadeIn)
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, other.ID)
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Message)
		wantErr error
	}{
		{name: "valid", modify: func(*Message) {}},
		{name: "empty id", modify: func(m *Message) { m.ID = "" }, wantErr: ErrEmptyID},
		{name: "blank title", modify: func(m *Message) { m.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "bad kind", modify: func(m *Message) { m.Kind = popup.Kind(99) }, wantErr: ErrBadKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMessage("Title", "Body", popup.KindScaleIn)
			require.NoError(t, err)
			tt.modify(m)
			assert.ErrorIs(t, m.Validate(), tt.wantErr)
		})
	}
}

func TestMessage_RelativeTime(t *testing.T) {
	now := time.Now()
	m := &Message{CreatedAt: now.Add(-5 * time.Minute).Unix()}
	assert.Equal(t, "5 minutes ago", m.RelativeTime(now))

	m.CreatedAt = now.Add(-3 * time.Hour).Unix()
	assert.Equal(t, "3 hours ago", m.RelativeTime(now))
}

func TestMessage_BodyTruncated(t *testing.T) {
	m := &Message{Body: "hello\n  wide   world"}

	tests := []struct {
		width int
		want  string
	}{
		{0, ""},
		{100, "hello wide world"},
		{16, "hello wide world"},
		{10, "hello w..."},
		{3, "hel"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.BodyTruncated(tt.width), "width %d", tt.width)
	}
}

func TestMessage_Text(t *testing.T) {
	m := &Message{Title: "T", Body: "B", Footer: "F"}
	assert.Equal(t, "T\n\nB\n\nF", m.Text())

	m.Body, m.Footer = "", ""
	assert.Equal(t, "T", m.Text())
}

func TestMessage_Lifecycle(t *testing.T) {
	m := &Message{}
	assert.False(t, m.IsShown())

	m.MarkHidden()
	assert.True(t, m.IsShown())
	assert.True(t, m.IsHidden())
	assert.Equal(t, m.HiddenAt, m.ShownAt)

	first := m.ShownAt
	m.MarkShown()
	assert.Equal(t, first, m.ShownAt)

	clone := m.Clone()
	clone.Title = "changed"
	assert.Empty(t, m.Title)
}

func TestSample(t *testing.T) {
	m, err := Sample(1, popup.KindBottomTop)
	require.NoError(t, err)
	assert.Equal(t, "Popup #1", m.Title)
	assert.Equal(t, sampleBodies[0], m.Body)
	assert.Contains(t, m.Footer, "bottom-top")

	m, err = Sample(len(sampleBodies)+2, popup.KindFadeIn)
	require.NoError(t, err)
	assert.Equal(t, sampleBodies[1], m.Body)
}
