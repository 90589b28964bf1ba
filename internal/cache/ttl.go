package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TTL configuration constants and defaults.
const (
	// DefaultTTLSeconds is the default cache TTL (5 minutes).
	DefaultTTLSeconds = 300

	// MinTTLSeconds is the minimum allowed TTL.
	MinTTLSeconds = 1

	// MaxTTLSeconds is the maximum allowed TTL (1 day).
	MaxTTLSeconds = 86400

	// EnvTTLSeconds overrides the configured TTL.
	EnvTTLSeconds = "NUTRIBOARD_CACHE_TTL_SECONDS"

	// EnvCacheEnabled enables or disables the cache.
	EnvCacheEnabled = "NUTRIBOARD_CACHE_ENABLED"

	// BackendFile selects FileStore.
	BackendFile = "file"

	// BackendRedis selects RedisStore.
	BackendRedis = "redis"
)

// ErrInvalidTTL is returned for a TTL outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// Options selects and configures a cache backend.
type Options struct {
	Enabled    bool
	Backend    string
	TTLSeconds int
	Directory  string
	RedisAddr  string
}

// Open builds the Store described by opts. A disabled cache yields a disabled FileStore.
func Open(opts Options, log zerolog.Logger) (Store, error) {
	if !opts.Enabled {
		return NewFileStore("", false, 0)
	}

	ttlSeconds := opts.TTLSeconds
	if ttlSeconds == 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	if err := ValidateTTL(ttlSeconds); err != nil {
		return nil, err
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Directory, true, ttl)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache backend requires an address")
		}
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		return NewRedisStore(client, ttl, log), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// ValidateTTL checks a TTL in seconds.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// GetTTLFromEnv reads the TTL from the environment, returning fallback when
// the variable is unset or invalid.
func GetTTLFromEnv(fallback int) int {
	envVal := os.Getenv(EnvTTLSeconds)
	if envVal == "" {
		return fallback
	}

	ttl, err := strconv.Atoi(envVal)
	if err != nil || ValidateTTL(ttl) != nil {
		return fallback
	}
	return ttl
}

// GetCacheEnabledFromEnv reads the enabled flag, returning fallback when unset or invalid.
func GetCacheEnabledFromEnv(fallback bool) bool {
	envVal := os.Getenv(EnvCacheEnabled)
	if envVal == "" {
		return fallback
	}

	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return fallback
	}
	return enabled
}

// ParseTTL parses "300" (seconds) or a duration string such as "5m".
func ParseTTL(s string) (int, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		return seconds, ValidateTTL(seconds)
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}

	seconds := int(duration.Seconds())
	return seconds, ValidateTTL(seconds)
}
