package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	production = "production"
	// DefaultAllowedOrigins is comma separated, which a go-env default can't hold.
	DefaultAllowedOrigins = "http://localhost:5500,127.0.0.1:5500"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=3500"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Environment          string        `env:"ENVIRONMENT,default=development"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`
	ProductionOrigins    string        `env:"PRODUCTION_ORIGINS,default=https://chat-app-will-lucena.vercel.app"`
	CommandBufferSize    int           `env:"COMMAND_BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	PingInterval         time.Duration `env:"WS_PING_INTERVAL,default=30s"`
	PongWait             time.Duration `env:"WS_PONG_WAIT,default=60s"`
	WriteWait            time.Duration `env:"WS_WRITE_WAIT,default=10s"`
	MaxMessageSize       int64         `env:"WS_MAX_MESSAGE_SIZE,default=4096"`
	TimeLayout           string        `env:"TIME_LAYOUT,default=3:04:05 PM"`
	StrictJoin           bool          `env:"STRICT_JOIN,default=false"`
	ReserveAdminName     bool          `env:"RESERVE_ADMIN_NAME,default=false"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CensoredWordsDir     string        `env:"CENSORED_WORDS_DIR"`
	CensorCharacter      string        `env:"CENSOR_CHARACTER,default=*"`
}

// LoadConfig reads an optional .env file then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return Config{}, fmt.Errorf("loading %v: %w", files, err)
	}
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, production)
}

// Origins is the websocket origin allow-list. The production origins are
// only added in production.
func (c Config) Origins() []string {
	allowed := c.AllowedOrigins
	if strings.TrimSpace(allowed) == "" {
		allowed = DefaultAllowedOrigins
	}
	origins := SplitList(allowed)
	if c.IsProduction() {
		origins = append(origins, SplitList(c.ProductionOrigins)...)
	}
	return origins
}

func (c Config) Words() []string {
	return SplitList(c.CensoredWords)
}

// SplitList splits a comma separated value, dropping blank entries.
func SplitList(value string) []string {
	var res []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_CHARACTER must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
