package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                    string
	PublicURL               string
	GMPin                   string
	GhostEventInterval      int
	KillerAdvantageInterval int
	KillerAdvantageEnabled  bool
	CompanionLockRounds     int
	SecretSentence          string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.PublicURL = getenv("PUBLIC_URL", "http://localhost:"+c.Port)
	c.GMPin = getenv("GM_PIN", "1313")
	c.GhostEventInterval = getint("GHOST_EVENT_INTERVAL", 3)
	c.KillerAdvantageInterval = getint("KILLER_ADVANTAGE_INTERVAL", 4)
	c.KillerAdvantageEnabled = getenv("KILLER_ADVANTAGE_ENABLED", "false") == "true"
	c.CompanionLockRounds = getint("COMPANION_LOCK_ROUNDS", 2)
	c.SecretSentence = os.Getenv("SECRET_SENTENCE")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
