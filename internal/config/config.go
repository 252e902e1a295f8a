package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution during bootstrap
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; strings for identifiers and secrets, ints and
// durations for windows and cadences.
type Config struct {
    Env              string        // application environment (e.g. "dev", "prod")
    Port             string        // HTTP port to listen on
    DBUser           string        // database username
    DBPass           string        // database password (optional)
    DBHost           string        // database host address
    DBPort           string        // database port number
    DBName           string        // database name
    JWTSecret        string        // secret used to verify bearer tokens
    CatalogURL       string        // base URL of the catalog service
    IdentityURL      string        // base URL of the identity service
    CatalogTimeout   time.Duration // per-call timeout for collaborator requests
    CatalogRetries   int           // retry budget for transient collaborator failures
    RabbitURL        string        // AMQP broker URL for domain events (optional)
    RetentionDays    int           // how far back availability counters are kept
    SweepInterval    time.Duration // cadence of the consistency sweeps
    CalendarCacheTTL time.Duration // lifetime of cached public calendar reads
}

// Load reads configuration from the environment.  Required variables are
// enforced by must(); missing values exit with a fatal log message.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        JWTSecret:        must("JWT_SECRET"),
        CatalogURL:       must("CATALOG_URL"),
        IdentityURL:      must("IDENTITY_URL"),
        CatalogTimeout:   envDur("CATALOG_TIMEOUT", 3*time.Second),
        CatalogRetries:   envInt("CATALOG_RETRIES", 3),
        RabbitURL:        os.Getenv("RABBITMQ_URL"), // empty falls back to the library default
        RetentionDays:    envInt("AVAILABILITY_RETENTION_DAYS", 30),
        SweepInterval:    envDur("SWEEP_INTERVAL", 24*time.Hour),
        CalendarCacheTTL: envDur("CALENDAR_CACHE_TTL", 30*time.Second),
    }
}

// must retrieves a required environment variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// envInt reads an optional integer variable, falling back to def.
func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return def
}

// envDur reads an optional duration variable, falling back to def.
func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil {
        return d
    }
    return def
}
