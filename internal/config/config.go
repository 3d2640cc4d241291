package config // loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field maps to an
// environment variable. Database fields are read lazily only when the
// mysql store driver is selected, so a file-backed run needs nothing
// beyond the required entries.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	StoreDriver  string // persistence driver: file | memory | redis | mysql
	StorePath    string // data directory for the file driver
	DBUser       string // mysql username (mysql driver only)
	DBPass       string // mysql password (optional)
	DBHost       string // mysql host address
	DBPort       string // mysql port number
	DBName       string // mysql database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	SeedDemoData bool   // load the demo user and catalog into an empty store
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),                      // environment (dev/test/prod)
		Port:         must("APP_PORT"),                     // port to bind the HTTP server
		StoreDriver:  envStr("STORE_DRIVER", "file"),       // which Store implementation to use
		StorePath:    envStr("STORE_PATH", "data"),         // directory for the file driver
		DBUser:       os.Getenv("DB_USER"),                 // mysql user (driver=mysql)
		DBPass:       os.Getenv("DB_PASS"),                 // mysql password (empty allowed)
		DBHost:       os.Getenv("DB_HOST"),                 // mysql host
		DBPort:       os.Getenv("DB_PORT"),                 // mysql port
		DBName:       os.Getenv("DB_NAME"),                 // mysql database
		JWTSecret:    must("JWT_SECRET"),                   // secret used for signing JWTs
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),   // TTL for access tokens in minutes
		BcryptCost:   envInt("BCRYPT_COST", 10),            // bcrypt cost factor
		SeedDemoData: envBool("SEED_DEMO_DATA", false),     // seed demo data on empty store
	}
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

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
