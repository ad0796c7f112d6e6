package config

import (
	"os"
)

// Config carries everything the process reads from the environment.
// Loaded once in main and handed to the services; handlers never touch
// os.Getenv themselves.
type Config struct {
	DatabaseURL string
	Port        string

	ClerkSecretKey string

	RazorpayKeyID     string
	RazorpayKeySecret string

	MetricsUser string
	MetricsPass string
}

func Load() Config {
	return Config{
		DatabaseURL:       env("DATABASE_URL", ""),
		Port:              env("PORT", "3333"),
		ClerkSecretKey:    env("CLERK_SECRET_KEY", ""),
		RazorpayKeyID:     env("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: env("RAZORPAY_KEY_SECRET", ""),
		MetricsUser:       env("METRICS_USER", ""),
		MetricsPass:       env("METRICS_PASS", ""),
	}
}

// PaymentsConfigured reports whether both Razorpay credentials are present.
// The billing endpoints refuse to contact the gateway without them.
func (c Config) PaymentsConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
