package moderation

import (
	"chat-relay/errors"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"badger", "snake"}, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Multiple occurrences",
			input:    "badger badger",
			expected: "****** ******",
			words:    []string{"badger", "badger"},
		},
		{
			name:     "Uppercase and noise",
			input:    "S-N-A-K-E",
			expected: "*********",
			words:    []string{"snake"},
		},
		{
			name:     "Leet speak",
			input:    "b4dg3r",
			expected: "******",
			words:    []string{"badger"},
		},
		{
			name:     "Nothing to censor",
			input:    "hello there",
			expected: "hello there",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content)
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_Ignores_Noise_Words(t *testing.T) {
	req := require.New(t)

	// Given a dictionary made of punctuation only
	_, err := NewModerator([]string{"...", ",,,", ""}, replacementChar, nil)

	// Then no automaton can be built
	req.ErrorIs(err, errors.ErrEmptyWords)

	// Given punctuation mixed with a real word
	mod, err := NewModerator([]string{"...", "badger", "snake"}, replacementChar, nil)
	req.NoError(err)

	// Then punctuation in messages is left alone
	content, words := mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)
}
