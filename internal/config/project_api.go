package config

import "time"

type ProjectAPI struct {
	Address string        `env:"PROJECT_API_ADDRESS,notEmpty"`
	DryRun  bool          `env:"PROJECT_API_DRY_RUN" envDefault:"false"`
	Timeout time.Duration `env:"PROJECT_API_TIMEOUT" envDefault:"10s"`
	Token   string        `env:"PROJECT_API_TOKEN"`
}
