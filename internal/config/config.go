package config

import (
	"os"
	"time"
)

type Config struct {
	HTTPPort string
	SiteURL  string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	ShopifyStoreDomain     string
	ShopifyStorefrontToken string
	ShopifyAdminToken      string
	ShopifyAPIVersion      string

	JWTSecret string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		SiteURL:  getEnv("SITE_URL", "http://localhost:3000"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "tavernadb"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ShopifyStoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyStorefrontToken: getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
		ShopifyAdminToken:      getEnv("SHOPIFY_ADMIN_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-10"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
