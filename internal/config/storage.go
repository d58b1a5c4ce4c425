package config

import "time"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBolt     = "bolt"
)

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"bolt"`
}

type Postgres struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type Bolt struct {
	Path string `env:"BOLT_PATH" envDefault:"data/group_project.db"`
}
