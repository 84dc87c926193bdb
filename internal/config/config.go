package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	// Status store: redis in online mode, in-process memory otherwise.
	StatusDriver string // redis|memory
	RedisAddr    string
	StatusTTL    time.Duration

	BlobBasePath string

	// Base64-encoded 32-byte key for question/choice text at rest.
	SecureTextKey string

	AuthHMACSecret string

	CORSOrigins []string

	// Render pipeline knobs.
	RenderWorkers   int
	RenderQueueSize int
	RenderChunkSize int // exam entries per PDF chunk
	RenderTimeout   time.Duration
	MaxAttempts     int
	RetryBackoff    time.Duration

	// Image optimizer caps.
	ImageMaxWidth   int
	ImageMaxHeight  int
	ImageJPEGQual   int
	ImageFetchLimit time.Duration

	// Sweeper.
	SweepInterval time.Duration
	TempMaxAge    time.Duration
	ArtifactAge   time.Duration
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	statusDriver := "memory"
	if mode == ModeOnline {
		statusDriver = "redis"
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		StatusDriver: envOr("STATUS_DRIVER", statusDriver),
		RedisAddr:    envOr("REDIS_ADDR", "localhost:6379"),
		StatusTTL:    envDur("STATUS_TTL", 24*time.Hour),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		SecureTextKey:  os.Getenv("SECURETEXT_KEY"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		RenderWorkers:   envInt("RENDER_WORKERS", 4),
		RenderQueueSize: envInt("RENDER_QUEUE_SIZE", 64),
		RenderChunkSize: envInt("RENDER_CHUNK_SIZE", 40),
		RenderTimeout:   envDur("RENDER_TIMEOUT", 5*time.Minute),
		MaxAttempts:     envInt("RENDER_MAX_ATTEMPTS", 3),
		RetryBackoff:    envDur("RENDER_RETRY_BACKOFF", 30*time.Second),

		ImageMaxWidth:   envInt("IMAGE_MAX_WIDTH", 960),
		ImageMaxHeight:  envInt("IMAGE_MAX_HEIGHT", 960),
		ImageJPEGQual:   envInt("IMAGE_JPEG_QUALITY", 75),
		ImageFetchLimit: envDur("IMAGE_FETCH_TIMEOUT", 15*time.Second),

		SweepInterval: envDur("SWEEP_INTERVAL", 15*time.Minute),
		TempMaxAge:    envDur("SWEEP_TEMP_MAX_AGE", time.Hour),
		ArtifactAge:   envDur("SWEEP_ARTIFACT_MAX_AGE", 24*time.Hour),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
