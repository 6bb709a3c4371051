package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
	StorageMinio      = "minio"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppEnv        string
	Port          string
	PublicBaseURL string
	ForceHTTPS    bool

	UploadDir      string
	StaticPrefix   string
	MaxUploadSize  int64
	MaxUploadFiles int
	StorageDriver  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryURL       string
	CloudinaryFolder    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	DBDriver        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	MigrationsDir   string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	OriginURL   string
	AuthEnabled bool
	JWTSecret   string

	LogLevel           string
	LogFile            string
	CleanupConcurrency int

	EnvFileLoaded bool
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MinioPublicBase is the URL prefix objects are served from, without the bucket.
func (c *Config) MinioPublicBase() string {
	if c.MinioPublicURL != "" {
		return strings.TrimRight(c.MinioPublicURL, "/")
	}
	if c.MinioEndpoint == "" {
		return ""
	}
	scheme := "http"
	if c.MinioUseSSL {
		scheme = "https"
	}
	return scheme + "://" + c.MinioEndpoint
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when AUTH_ENABLED is true")

// Validate reports settings the server must not start with.
func (c *Config) Validate() error {
	if c.AuthEnabled && strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func LoadConfig() *Config {
	envErr := godotenv.Load()

	cfg := &Config{
		EnvFileLoaded: envErr == nil,

		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "9595")),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		ForceHTTPS:    getEnvBool("FORCE_HTTPS", false),

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		StaticPrefix:   "/" + strings.Trim(getEnv("STATIC_PREFIX", "/uploads"), "/"),
		MaxUploadSize:  getEnvInt64("MAX_UPLOAD_SIZE", 5*1024*1024),
		MaxUploadFiles: int(getEnvInt64("MAX_UPLOAD_FILES", 5)),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryURL:       getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "products"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "catalog"),
		MongoCollection: getEnv("MONGO_COLLECTION", "products"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "catalog"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "database/migration"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		OriginURL:   getEnv("ORIGIN_URL", ""),
		AuthEnabled: getEnvBool("AUTH_ENABLED", false),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		CleanupConcurrency: int(getEnvInt64("CLEANUP_CONCURRENCY", 4)),
	}

	if cfg.MaxUploadFiles < 1 {
		cfg.MaxUploadFiles = 1
	}
	if cfg.CleanupConcurrency < 1 {
		cfg.CleanupConcurrency = 1
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
