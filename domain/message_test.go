package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatter_Build(t *testing.T) {
	req := require.New(t)
	clock := func() time.Time { return time.Date(2024, 3, 1, 21, 7, 9, 0, time.UTC) }

	t.Run("Uses the given clock and layout", func(t *testing.T) {
		msg := NewFormatter(clock, "15:04").Build("Alice", "hi")
		req.Equal(Message{Name: "Alice", Text: "hi", Time: "21:07"}, msg)
	})

	t.Run("Empty layout falls back to the default", func(t *testing.T) {
		msg := NewFormatter(clock, "").Build(AdminLabel, WelcomeText)
		req.Equal("9:07:09 PM", msg.Time)
	})

	t.Run("Zero value is usable", func(t *testing.T) {
		var f Formatter
		msg := f.Build("Bob", "")
		_, err := time.Parse(DefaultTimeLayout, msg.Time)
		req.NoError(err)
		req.Empty(msg.Text)
	})
}
