package config

import (
	"os"
	"strconv"
)

// Config collects the runtime settings the server reads from the
// environment. Call Load after godotenv has populated the process env.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// pricing
	TaxRate           float64
	ShippingFee       float64
	FreeShippingAbove float64
	Currency          string

	// payment gateway; empty credentials disable online payment and the
	// checkout falls back to cash on delivery
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
}

func Load() Config {
	return Config{
		Addr:        envOr("BAKERY_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		TaxRate:           envFloat("TAX_RATE", 0.05),
		ShippingFee:       envFloat("SHIPPING_FEE", 40),
		FreeShippingAbove: envFloat("FREE_SHIPPING_ABOVE", 500),
		Currency:          envOr("CURRENCY", "INR"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
