package config

type Queue struct {
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	Concurrency   int    `env:"WORKER_CONCURRENCY" envDefault:"4"`
}
