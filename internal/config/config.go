package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The admin password and the session signing
// secret are the only two secrets the application has; everything else is
// connection plumbing.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	AdminPassword string // shared admin password (hashed at startup, never logged)
	SessionSecret string // secret used to sign admin session tokens
	Debug         bool   // verbose logging toggle
	BcryptCost    int    // bcrypt cost for hashing the admin password

	DBDriver string // "mysql" (default) or "sqlite"
	DBUser   string // database username (mysql)
	DBPass   string // database password (mysql, optional)
	DBHost   string // database host address (mysql)
	DBPort   string // database port number (mysql)
	DBName   string // database name (mysql)
	DBPath   string // database file path (sqlite)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. The database section
// is driver-dependent: mysql requires the full host/user/name set, sqlite
// only a file path.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		AdminPassword: must("ADMIN_PASSWORD"),
		SessionSecret: must("SESSION_SECRET"),
		Debug:         os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1",
		BcryptCost:    optInt("BCRYPT_COST", 10),
		DBDriver:      opt("DB_DRIVER", "mysql"),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite":
		cfg.DBPath = opt("DB_PATH", "potluck.db")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// opt returns the environment variable's value or the given default.
func opt(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optInt is like opt but converts the value into an integer, falling back
// to the default on parse failure.
func optInt(key string, def int) int {
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
