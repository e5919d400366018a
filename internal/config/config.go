package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strings" // strings normalises enumerated values
)

// Store drivers accepted in STORE_DRIVER.
const (
    StoreMySQL  = "mysql"
    StoreMemory = "memory"
)

// Config holds the process-level configuration.  Database settings are
// only required when the MySQL store is selected.
type Config struct {
    Env         string // application environment (e.g. "dev", "prod")
    Port        string // HTTP port to listen on
    StoreDriver string // "mysql" or "memory"
    DBUser      string // database username
    DBPass      string // database password (optional)
    DBHost      string // database host address
    DBPort      string // database port number
    DBName      string // database name
    DBMigrate   bool   // apply embedded migrations at startup
    JWTSecret   string // secret used to verify access tokens
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:         must("APP_ENV"),
        Port:        must("APP_PORT"),
        StoreDriver: strings.ToLower(envStr("STORE_DRIVER", StoreMySQL)),
        JWTSecret:   must("JWT_SECRET"),
    }
    switch cfg.StoreDriver {
    case StoreMySQL:
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
        cfg.DBMigrate = envBool("DB_MIGRATE", false)
    case StoreMemory:
    default:
        log.Fatalf("invalid STORE_DRIVER: %q", cfg.StoreDriver)
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
