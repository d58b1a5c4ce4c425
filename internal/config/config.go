package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP       HTTP
	ProjectAPI ProjectAPI
	Storage    Storage
	Postgres   Postgres
	Bolt       Bolt
	Files      Files
	Queue      Queue
	Rollbar    Rollbar
	Env        string `env:"ENV" envDefault:"dev"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
}

// Load reads the configuration from the environment. Variables from an optional
// .env file (DOTENV_PATH, ".env" by default) are loaded first and never override
// variables that are already set.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func loadDotEnv() error {
	path := ".env"
	if p, ok := os.LookupEnv("DOTENV_PATH"); ok && p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("godotenv.Load(%s): %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres storage driver")
		}
	case StorageDriverBolt:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Files.Driver {
	case FilesDriverB2:
		if c.Files.B2KeyID == "" || c.Files.B2AppKey == "" || c.Files.B2Bucket == "" {
			return errors.New("config: B2_KEY_ID, B2_APP_KEY and B2_BUCKET are required for the b2 files driver")
		}
	case FilesDriverLocal:
	default:
		return fmt.Errorf("config: unknown FILES_DRIVER %q", c.Files.Driver)
	}
	return nil
}
