// Package config reads settings from the environment and an optional .env
// file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/calc/pin"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	DatabaseURL string
	SQLitePath  string
	TokenKey    string

	MaterialFile string
	TablesFile   string
	ReportDir    string
	CADDir       string

	LogLevel  string
	LogFormat string

	MaxIterations     int
	MaxLengthAttempts int
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds the config. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperr.Wrap(apperr.ErrFormat, "config.Load", err)
		}
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	c := Config{
		Addr:         get("ADDR", ":8080"),
		TLSCert:      getenv("TLS_CERT"),
		TLSKey:       getenv("TLS_KEY"),
		DatabaseURL:  getenv("DATABASE_URL"),
		SQLitePath:   get("SQLITE_PATH", "boltcalc.db"),
		TokenKey:     getenv("TOKEN_KEY"),
		MaterialFile: get("MATERIAL_FILE", "materials.mat"),
		TablesFile:   getenv("TABLES_FILE"),
		ReportDir:    get("REPORT_DIR", "."),
		CADDir:       get("CAD_DIR", "."),
		LogLevel:     get("LOG_LEVEL", "info"),
		LogFormat:    get("LOG_FORMAT", "json"),
	}

	var err error
	if c.MaxIterations, err = positiveInt(getenv, "MAX_ITERATIONS", pin.DefaultMaxIterations); err != nil {
		return Config{}, err
	}
	if c.MaxLengthAttempts, err = positiveInt(getenv, "MAX_LENGTH_ATTEMPTS", pin.DefaultMaxLengthAttempts); err != nil {
		return Config{}, err
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, apperr.Validation("config.Load", "TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.Validation("config.Load", "%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func (c Config) TLS() bool {
	return c.TLSCert != ""
}
