package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per HTTP request, must exceed StoreTimeout (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote XML store
	StoreURL     string        // eXist REST document URL (ex: http://127.0.0.1:8080/exist/rest/db/nz/nz.xml)
	StoreTimeout time.Duration // timeout of a single store round trip (default: 5s)
	StoreMaxBody int64         // max response size in bytes (default: 4 MiB)

	// Message catalogue
	MessagesFile   string        // optional YAML overriding the built-in replies (empty = built-in only)
	ReloadInterval time.Duration // interval to reload MessagesFile (default: 1h)

	// Rate limiting of the update endpoints
	RateBurst  int // bucket size per client IP (default: 20)
	RatePerMin int // refill per client IP and minute (default: 60)

	// Redis (optional, shared rate limiting across instances)
	RedisAddr             string        // ex: "localhost:6379", empty = in-memory limiter
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when RedisAddr is set
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /reload to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("VERSE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VERSE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("VERSE_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("VERSE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VERSE_PRETTY_LOG", true),

		// Store
		StoreURL:     requireEnv("VERSE_STORE_URL"),
		StoreTimeout: mustDuration("VERSE_STORE_TIMEOUT", 5*time.Second),
		StoreMaxBody: int64(getenvInt("VERSE_STORE_MAX_BODY", 4<<20)),

		// Messages
		MessagesFile:   getenv("VERSE_MESSAGES_FILE", ""), // Optional, empty = built-in texts
		ReloadInterval: mustDuration("VERSE_RELOAD_INTERVAL", time.Hour),

		// Rate limiting
		RateBurst:  getenvInt("VERSE_RATE_BURST", 20),
		RatePerMin: getenvInt("VERSE_RATE_PER_MIN", 60),

		// Redis settings
		RedisAddr:             getenv("VERSE_REDIS_ADDR", ""),
		RedisUser:             getenv("VERSE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VERSE_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("VERSE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("VERSE_REDIS_DB", 0),
		RedisDT:               mustDuration("VERSE_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("VERSE_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("VERSE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("VERSE_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("VERSE_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("VERSE_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("VERSE_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("VERSE_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("VERSE_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("VERSE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("VERSE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("VERSE_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VERSE_REDIS_PASSWORD is required when VERSE_REDIS_PASSWORD_REQUIRED=true")
	}

	// The chi timeout must leave room for a full store round trip
	if cfg.RequestTimeout <= cfg.StoreTimeout {
		panic(fmt.Sprintf("❌ FATAL: VERSE_REQUEST_TIMEOUT (%s) must be greater than VERSE_STORE_TIMEOUT (%s)",
			cfg.RequestTimeout, cfg.StoreTimeout))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a shared Redis limiter is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
