package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	SessionSecret   string
	SessionTTLDays  int
	PageSize        int
	RedisAddr       string
	LoginRatePerMin int
	RabbitURL       string
	Prod            bool
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "posts_db"),
		SessionSecret:   getenv("SESSION_SECRET", "default_secret_key"),
		SessionTTLDays:  atoi(getenv("SESSION_TTL_DAYS", "14")),
		PageSize:        atoi(getenv("PAGE_SIZE", "10")),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		LoginRatePerMin: atoi(getenv("LOGIN_RATE_PER_MIN", "5")),
		RabbitURL:       getenv("RABBIT_URL", ""),
		Prod:            getenv("APP_ENV", "dev") == "prod",
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
