package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	APIUrl      string
	FrontendURL string

	// Database
	DBDriver   string // "sqlite" | "postgres"
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Delegated conversion service
	ConvertServiceURL string

	// Capture device
	SpoolPath            string
	CaptureIdealWidth    int
	CaptureIdealHeight   int
	CaptureFacingOutward bool

	// Local storage (export staging)
	LocalAssetsPath string

	// Export mirror (S3)
	ExportMirrorEnabled     bool
	ExportS3Endpoint        string
	ExportS3Region          string
	ExportS3AccessKeyID     string
	ExportS3SecretAccessKey string
	ExportS3UsePathStyle    bool
	ExportBucket            string

	// Limits
	UploadMaxImageSize int64
	IngestMaxPerDay    int
	RateLimitRequests  int
	RateLimitDuration  time.Duration

	// CORS
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		APIUrl:      getEnv("API_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "/data/filmdesk/frames.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "filmdesk"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "filmdesk_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Delegated conversion service
		ConvertServiceURL: getEnv("CONVERT_SERVICE_URL", "http://localhost:5000/process"),

		// Capture device
		SpoolPath:            getEnv("SPOOL_PATH", "/data/filmdesk/spool"),
		CaptureIdealWidth:    getEnvAsInt("CAPTURE_IDEAL_WIDTH", 1920),
		CaptureIdealHeight:   getEnvAsInt("CAPTURE_IDEAL_HEIGHT", 1080),
		CaptureFacingOutward: getEnv("CAPTURE_FACING_OUTWARD", "true") == "true",

		// Local storage
		LocalAssetsPath: getEnv("LOCAL_ASSETS_PATH", "/data/filmdesk/assets"),

		// Export mirror
		ExportMirrorEnabled:     getEnv("EXPORT_MIRROR_ENABLED", "false") == "true",
		ExportS3Endpoint:        getEnv("EXPORT_S3_ENDPOINT", ""),
		ExportS3Region:          getEnv("EXPORT_S3_REGION", "us-east-1"),
		ExportS3AccessKeyID:     getEnv("EXPORT_S3_ACCESS_KEY_ID", ""),
		ExportS3SecretAccessKey: getEnv("EXPORT_S3_SECRET_ACCESS_KEY", ""),
		ExportS3UsePathStyle:    getEnv("EXPORT_S3_USE_PATH_STYLE", "true") == "true",
		ExportBucket:            getEnv("EXPORT_BUCKET", "filmdesk-exports"),

		// Limits
		UploadMaxImageSize: int64(getEnvAsInt("UPLOAD_MAX_IMAGE_SIZE", 25*1024*1024)),
		IngestMaxPerDay:    getEnvAsInt("INGEST_MAX_PER_DAY", 500),
		RateLimitRequests:  getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration:  getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods: getEnvAsSlice("ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		AllowedHeaders: getEnvAsSlice("ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Minute
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
