package config

// Rollbar forwarding is disabled while Token is empty.
type Rollbar struct {
	Token string `env:"ROLLBAR_TOKEN"`
}
