package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment does not say otherwise.
const (
	DefaultTickSeconds       = 15
	DefaultGraceSeconds      = 1800
	DefaultPreAnnounceMin    = 10
	DefaultUptimeMinutes     = 60
	DefaultListingTTLSeconds = 6 * 60 * 60
	DefaultLocale            = "en"
)

type Config struct {
	Token             string
	DatabaseURL       string
	MigrationsPath    string
	TickSeconds       int
	GraceSeconds      int
	PreAnnounceMin    int
	UptimeMinutes     int
	ListingTTLSeconds int
	Locale            string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:             os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    os.Getenv("MIGRATIONS_PATH"),
		TickSeconds:       intEnv("TICK_SECONDS", DefaultTickSeconds),
		GraceSeconds:      intEnv("GRACE_SECONDS", DefaultGraceSeconds),
		PreAnnounceMin:    intEnv("DEFAULT_PRE_ANNOUNCE_MIN", DefaultPreAnnounceMin),
		UptimeMinutes:     intEnv("DEFAULT_UPTIME_MIN", DefaultUptimeMinutes),
		ListingTTLSeconds: intEnv("LISTING_TTL_SECONDS", DefaultListingTTLSeconds),
		Locale:            os.Getenv("LOCALE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN est requis et ne peut pas être vide")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
		c.DatabaseURL = "postgres://localhost:5432/bossbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}

	if c.TickSeconds <= 0 {
		return fmt.Errorf("config: TICK_SECONDS doit être strictement positif (reçu %d)", c.TickSeconds)
	}
	if c.GraceSeconds < 0 {
		return fmt.Errorf("config: GRACE_SECONDS ne peut pas être négatif (reçu %d)", c.GraceSeconds)
	}
	if c.PreAnnounceMin < 0 {
		return fmt.Errorf("config: DEFAULT_PRE_ANNOUNCE_MIN ne peut pas être négatif (reçu %d)", c.PreAnnounceMin)
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = DefaultLocale
	}

	return nil
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
