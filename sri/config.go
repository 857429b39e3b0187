package sri

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const (
	DefaultTimeout     = 180 * time.Second
	DefaultUserAgent   = "SOAP Client"
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 1 * time.Second
	DefaultSendDelay   = 3 * time.Second
)

// Config transport and retry settings shared by the reception and
// authorization clients.
type Config struct {
	Environment Environment

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string

	MaxAttempts int
	RetryDelay  time.Duration

	// SendDelay pause between reception and authorization in Sender.Send
	SendDelay time.Duration
}

func DefaultConfig(env Environment) Config {
	return Config{
		Environment:    env,
		ConnectTimeout: DefaultTimeout,
		ReadTimeout:    DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxAttempts:    DefaultMaxAttempts,
		RetryDelay:     DefaultRetryDelay,
		SendDelay:      DefaultSendDelay,
	}
}

// Normalized returns a copy with zero or negative values replaced by
// defaults. A pause-free client is built with the WithRetryDelay and
// WithSendDelay options, never through Config.
func (c Config) Normalized() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.SendDelay <= 0 {
		c.SendDelay = DefaultSendDelay
	}
	return c
}

// LoadConfig builds Config from SRI_* environment variables on top of the
// defaults. Durations accept Go syntax ("1500ms") or bare seconds ("3").
func LoadConfig() (Config, error) {
	cfg := DefaultConfig(Test)

	if v, ok := lookup("SRI_ENV"); ok {
		if err := cfg.Environment.UnmarshalText([]byte(v)); err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("SRI_USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok := lookup("SRI_MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "SRI_MAX_ATTEMPTS")
		}
		cfg.MaxAttempts = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SRI_CONNECT_TIMEOUT", &cfg.ConnectTimeout},
		{"SRI_READ_TIMEOUT", &cfg.ReadTimeout},
		{"SRI_RETRY_DELAY", &cfg.RetryDelay},
		{"SRI_SEND_DELAY", &cfg.SendDelay},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok {
			continue
		}
		parsed, err := ParseDuration(v)
		if err != nil {
			return Config{}, errors.Wrap(err, d.key)
		}
		*d.dst = parsed
	}

	return cfg.Normalized(), nil
}

// ParseDuration accepts "2s", "1500ms" or a bare number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
