package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer string // Optional: issuer claim for tokens (default: tubetab)

	AccessTokenSecret  string        // Required outside dev: HS256 secret for access tokens
	AccessTokenExpiry  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenSecret string        // Required outside dev: HS256 secret for refresh tokens, must differ
	RefreshTokenExpiry time.Duration // Optional: refresh token lifetime (default: 10d)
	CookieSecure       bool          // Optional: Secure flag on session cookies (default: true)

	StoreDriver    string // Optional: credential store driver (sqlite, mongo) (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./tubetab.db)
	MongoURI       string // Required for mongo: connection string
	MongoDatabase  string // Optional: mongo database name (default: tubetab)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	MediaBackend   string // Optional: image storage (disk, s3) (default: disk)
	MediaTempDir   string // Optional: where multipart uploads are spooled (default: os temp dir)
	MediaDir       string // Optional: disk backend directory (default: ./media)
	MediaPublicURL string // Optional: public base URL of stored images
	MediaKeyPrefix string // Optional: object key prefix (default: images)
	MaxUploadBytes int64  // Optional: registration body limit (default: 10MiB)
	S3Region       string // Optional: bucket region (default: us-east-1)
	S3Endpoint     string // Optional: custom endpoint, e.g. MinIO
	S3Bucket       string // Required for s3
	S3AccessKey    string // Optional: static credentials, falls back to the AWS chain
	S3SecretKey    string
	S3CreateBucket bool // Optional: create the bucket on startup (default: false)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:             getEnvOrDefault("AUTH_ISSUER", "tubetab"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  getEnvDurationOrDefault("ACCESS_TOKEN_EXPIRY", 15*time.Minute), // "15m", "1h", "10d"
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		RefreshTokenExpiry: getEnvDurationOrDefault("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),
		CookieSecure:       getEnvBoolOrDefault("COOKIE_SECURE", true),

		StoreDriver:    strings.ToLower(getEnvOrDefault("AUTH_STORE_DRIVER", "sqlite")),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "tubetab.db"),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  getEnvOrDefault("MONGODB_DATABASE", "tubetab"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"), // Default to ./pepper
		MediaBackend:   strings.ToLower(getEnvOrDefault("MEDIA_BACKEND", "disk")),
		MediaTempDir:   os.Getenv("MEDIA_TEMP_DIR"),
		MediaDir:       getEnvOrDefault("MEDIA_DIR", "media"),
		MediaPublicURL: os.Getenv("MEDIA_PUBLIC_BASE_URL"),
		MediaKeyPrefix: getEnvOrDefault("MEDIA_KEY_PREFIX", "images"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MEDIA_MAX_UPLOAD_BYTES", 10<<20)),
		S3Region:       getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3CreateBucket: getEnvBoolOrDefault("S3_CREATE_BUCKET", false),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.MediaPublicURL == "" && cfg.MediaBackend == "disk" {
		cfg.MediaPublicURL = fmt.Sprintf("http://localhost:%d/media", cfg.Port)
	}

	return cfg
}

// IsDev reports whether missing secrets may be generated on the fly.
func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks the settings LoadConfig can't default. Missing token
// secrets are only tolerated in dev, where New generates throwaway ones.
func (c Config) Validate() error {
	var errs []error

	if !c.IsDev() {
		if c.AccessTokenSecret == "" {
			errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
		}
		if c.RefreshTokenSecret == "" {
			errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
		}
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	}

	switch c.StoreDriver {
	case "sqlite":
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.MediaBackend {
	case "disk":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 media backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := parseDuration(value); err == nil {
		return d
	}

	return defaultValue
}

// parseDuration accepts Go durations ("1h", "30m") and a day suffix ("10d").
// Bare integers carry no unit and are rejected.
func parseDuration(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	return 0, fmt.Errorf("invalid duration %q", value)
}
