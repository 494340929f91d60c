package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	VectorDatabaseURL string
	AIAPIKey          string
	EmbedModel        string
	EmbedDim          int
	GenModel          string
	Port              string
	ChunkSize         int
	ChunkOverlap      int
	TopK              int
	MaxUploadMB       int
	AwsAccessKey      string
	AwsSecretKey      string
	AwsRegion         string
	BucketName        string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		VectorDatabaseURL: getEnv("VECTOR_DATABASE_URL", ""),
		AIAPIKey:          getEnv("GEMINI_API_KEY", ""),
		EmbedModel:        getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:          getEnvInt("EMBED_DIM", 768),
		GenModel:          getEnv("GEN_MODEL", "gemini-2.5-flash"),
		Port:              getEnv("PORT", "3001"),
		ChunkSize:         getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 50),
		TopK:              getEnvInt("TOP_K", 5),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 10),
		AwsAccessKey:      getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:      getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:         getEnv("AWS_REGION", "us-east-2"),
		BucketName:        getEnv("BUCKET_NAME", ""),
	}

	// The chunk store lives next to the metadata store unless pointed elsewhere.
	if cfg.VectorDatabaseURL == "" {
		cfg.VectorDatabaseURL = cfg.DatabaseURL
	}

	return cfg
}

// ArchiveEnabled reports whether raw uploads should also be copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.BucketName != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
