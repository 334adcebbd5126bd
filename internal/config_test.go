package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	for _, key := range []string{"HOST", "PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "TIME_LAYOUT", "STRICT_JOIN", "CENSORED_WORDS"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("localhost:3500", config.Address())
	req.Equal("3:04:05 PM", config.TimeLayout)
	req.Equal(200*time.Millisecond, config.RestartInterval)
	req.Equal(int64(4096), config.MaxMessageSize)
	req.False(config.StrictJoin)
	req.Equal([]string{"http://localhost:5500", "127.0.0.1:5500"}, config.Origins())
	req.Empty(config.Words())
}

func TestLoadConfig_Production_Adds_Origins(t *testing.T) {
	req := require.New(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5500")
	t.Setenv("PRODUCTION_ORIGINS", "https://chat.example.com")

	config, err := LoadConfig()

	req.NoError(err)
	req.True(config.IsProduction())
	req.Equal([]string{"http://localhost:5500", "https://chat.example.com"}, config.Origins())
}

func TestLoadConfig_Reads_Dotenv_File(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "")
	_ = os.Unsetenv("PORT")
	t.Setenv("CENSORED_WORDS", "")
	_ = os.Unsetenv("CENSORED_WORDS")

	file := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(file, []byte("PORT=4000\nCENSORED_WORDS=badger, snake,,\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("PORT")
		_ = os.Unsetenv("CENSORED_WORDS")
	})

	config, err := LoadConfig(file)

	req.NoError(err)
	req.Equal(4000, config.Port)
	req.Equal([]string{"badger", "snake"}, config.Words())
}

func TestLoadConfig_Missing_File(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("**")
	req.Error(err)
}
