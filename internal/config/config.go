package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     int
	MongoURI string
	MongoDB  string

	JWTSecret string

	GeocodeAPIURL string
	GeocodeAPIKey string

	MailAPIURL string
	MailAPIKey string

	LogLevel    string
	CORSOrigins []string

	// Optional uniqueness constraints on relationship pairs. Off by default
	// because the legacy data set contains duplicate follows/registrations.
	UniqueFollows       bool
	UniqueRegistrations bool
}

func Load() Config {
	port := 8080
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Port:                port,
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "eventhood"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		GeocodeAPIURL:       os.Getenv("GEOCODE_API_URL"),
		GeocodeAPIKey:       os.Getenv("GEOCODE_API_KEY"),
		MailAPIURL:          os.Getenv("MAIL_API_URL"),
		MailAPIKey:          os.Getenv("MAIL_API_KEY"),
		LogLevel:            logLevel,
		CORSOrigins:         origins,
		UniqueFollows:       os.Getenv("UNIQUE_FOLLOWS") == "true",
		UniqueRegistrations: os.Getenv("UNIQUE_REGISTRATIONS") == "true",
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
