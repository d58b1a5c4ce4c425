package connectors

import "github.com/hibiken/asynq"

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func (r *Redis) Enabled() bool {
	return r != nil && r.Addr != ""
}

func (r *Redis) ClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}
}
