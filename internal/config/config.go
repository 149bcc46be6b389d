package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream platforms
	Platforms      []string      // enabled platforms (ex: "codeforces,leetcode,codechef")
	CodeforcesURL  string        // contest.list endpoint
	LeetCodeURL    string        // GraphQL endpoint
	CodeChefURL    string        // contest list endpoint
	RelayURL       string        // optional, backend relay base (ex: http://localhost:5000/api/contest)
	FetchTimeout   time.Duration // timeout for one platform fetch, retries included
	FetchRetries   int           // attempts per request (>= 1)
	FetchRetryWait time.Duration // base wait between attempts, grows linearly
	PastWindow     time.Duration // past contests older than this are dropped (0 = keep all)
	UserAgent      string

	// Schedules
	RefreshInterval time.Duration // contest refresh (default: 5m)
	SolutionsFile   string        // optional YAML file with solution links
	SolutionsReload time.Duration // solutions file reload interval
	GCInterval      time.Duration // orphan bookmark collection interval
	OrphanTTL       time.Duration // orphan bookmarks unseen upstream for this long are removed (default 0 = never)

	// Storage
	Store      string // "redis" | "sqlite" | "memory"
	SQLitePath string // path to the sqlite database file

	// Redis (only read when Store == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
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

	// HTTP surface
	CORSOrigins     []string // allowed browser origins ("*" = any)
	RateLimitPerMin int      // requests per minute per client IP (0 = disabled)
	AllowedHosts    []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS    []string // optional, restrict admin routes to specific IPs/CIDRs
	TrustProxy      bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HORIZON_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HORIZON_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("HORIZON_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HORIZON_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HORIZON_PRETTY_LOG", true),

		// Upstream platforms
		Platforms:      splitAndTrim(getenv("HORIZON_PLATFORMS", "codeforces,leetcode,codechef")),
		CodeforcesURL:  getenv("HORIZON_CODEFORCES_URL", "https://codeforces.com/api/contest.list?gym=false"),
		LeetCodeURL:    getenv("HORIZON_LEETCODE_URL", "https://leetcode.com/graphql"),
		CodeChefURL:    getenv("HORIZON_CODECHEF_URL", "https://www.codechef.com/api/list/contests/all?sort_by=START&sorting_order=asc&offset=0&mode=all"),
		RelayURL:       strings.TrimRight(getenv("HORIZON_RELAY_URL", ""), "/"),
		FetchTimeout:   mustDuration("HORIZON_FETCH_TIMEOUT", 15*time.Second),
		FetchRetries:   getenvInt("HORIZON_FETCH_RETRIES", 3),
		FetchRetryWait: mustDuration("HORIZON_FETCH_RETRY_WAIT", 500*time.Millisecond),
		PastWindow:     mustDuration("HORIZON_PAST_WINDOW", 30*24*time.Hour),
		UserAgent:      getenv("HORIZON_USER_AGENT", "horizon/1.0 (+contest aggregator)"),

		// Schedules
		RefreshInterval: mustDuration("HORIZON_REFRESH_INTERVAL", 5*time.Minute),
		SolutionsFile:   getenv("HORIZON_SOLUTIONS_FILE", ""), // Optional, empty = store only
		SolutionsReload: mustDuration("HORIZON_SOLUTIONS_RELOAD_INTERVAL", time.Hour),
		GCInterval:      mustDuration("HORIZON_GC_INTERVAL", 24*time.Hour),
		OrphanTTL:       mustDuration("HORIZON_ORPHAN_TTL", 0),

		// Storage
		Store:      strings.ToLower(getenv("HORIZON_STORE", StoreSQLite)),
		SQLitePath: getenv("HORIZON_SQLITE_PATH", "horizon.db"),

		// HTTP surface
		CORSOrigins:     splitAndTrim(getenv("HORIZON_CORS_ORIGINS", "*")),
		RateLimitPerMin: getenvInt("HORIZON_RATE_LIMIT_PER_MIN", 120),
		AllowedHosts:    splitAndTrim(getenv("HORIZON_ALLOWED_HOSTS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("HORIZON_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("HORIZON_TRUST_PROXY", false),
	}

	switch cfg.Store {
	case StoreRedis:
		cfg.loadRedis()
	case StoreSQLite, StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown HORIZON_STORE %q (expected redis, sqlite or memory)", cfg.Store))
	}

	if cfg.FetchRetries < 1 {
		cfg.FetchRetries = 1
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func (cfg *Config) loadRedis() {
	cfg.RedisAddr = requireEnv("HORIZON_REDIS_ADDR")
	cfg.RedisUser = getenv("HORIZON_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("HORIZON_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("HORIZON_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("HORIZON_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: HORIZON_REDIS_PASSWORD is required when HORIZON_REDIS_PASSWORD_REQUIRED=true")
	}
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

// mustDuration also accepts a day suffix ("30d") on top of time.ParseDuration.
func mustDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
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
