package runtime

import (
	"chat-relay/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt":    {Data: []byte("badger\r\nsnake\n\n")},
		"censored/fr.txt":    {Data: []byte("  serpent \nsnake\n")},
		"censored/README.md": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.NoError(err)
	req.Equal([]string{"badger", "serpent", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty_Dictionary(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n   \n")},
	}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_Missing_Directory(t *testing.T) {
	_, err := NewCensoredLoader(fstest.MapFS{}).LoadAll("censored")

	require.Error(t, err)
}
