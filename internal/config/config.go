package config

import (
	"fmt"
	"os"
)

// Config carries every credential and endpoint the services need. It is
// built once in main and passed into constructors; services never read the
// environment themselves.
type Config struct {
	MongoURI string
	Database string
	Port     string

	// Daraja (M-Pesa) credentials
	DarajaBaseURL     string
	ConsumerKey       string
	ConsumerSecret    string
	BusinessShortcode string
	Passkey           string
	CallbackURL       string
	// Optional shared secret appended to the callback route. Empty means the
	// callback endpoint is open.
	CallbackToken string

	// Clerk identity provider
	ClerkAPIURL    string
	ClerkSecretKey string

	JWTSecret []byte

	AdminEmail        string
	AdminPasswordHash string
}

// Load reads configuration from the environment. Only the values required to
// boot at all are mandatory; payment credentials are validated at call time
// so the marketplace endpoints still serve without them.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:          os.Getenv("MONGOURI"),
		Database:          getenv("MONGO_DATABASE", "mygigsdb"),
		Port:              getenv("PORT", "8000"),
		DarajaBaseURL:     getenv("DARAJA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		ConsumerKey:       os.Getenv("DARAJA_CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("DARAJA_CONSUMER_SECRET"),
		BusinessShortcode: os.Getenv("DARAJA_SHORTCODE"),
		Passkey:           os.Getenv("DARAJA_PASSKEY"),
		CallbackURL:       os.Getenv("DARAJA_CALLBACK_URL"),
		CallbackToken:     os.Getenv("DARAJA_CALLBACK_TOKEN"),
		ClerkAPIURL:       getenv("CLERK_API_URL", "https://api.clerk.com"),
		ClerkSecretKey:    os.Getenv("CLERK_SECRET_KEY"),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI environment variable not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
