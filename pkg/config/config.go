package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort      int
	HTTPPort      int
	InventoryPort int

	// Storage selects the cart snapshot backend: memory, file or redis.
	Storage     string
	StoragePath string
	StorageKey  string
	RedisAddr   string

	// InventoryURL is the base URL of the inventory API. Empty means the
	// bundled catalog is served in-process.
	InventoryURL  string
	InventorySeed string
	LookupTimeout time.Duration

	OTelEnabled  bool
	OTelEndpoint string
}

// Load reads the environment, after loading .env files when present.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)

	return Config{
		AppEnv:        getEnv("APP_ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		GRPCPort:      getEnvInt("GRPC_PORT", 8081),
		InventoryPort: getEnvInt("INVENTORY_PORT", 3333),
		Storage:       strings.ToLower(getEnv("CART_STORAGE", "file")),
		StoragePath:   getEnv("CART_STORAGE_PATH", "data/cart.json"),
		StorageKey:    getEnv("CART_STORAGE_KEY", "@RocketShoes:cart"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		InventoryURL:  getEnv("INVENTORY_URL", ""),
		InventorySeed: getEnv("INVENTORY_SEED", ""),
		LookupTimeout: getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second),
		OTelEnabled:   getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
