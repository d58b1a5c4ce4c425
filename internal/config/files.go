package config

const (
	FilesDriverLocal = "local"
	FilesDriverB2    = "b2"
)

type Files struct {
	Driver string `env:"FILES_DRIVER" envDefault:"local"`

	LocalDir     string `env:"FILES_LOCAL_DIR" envDefault:"data/uploads"`
	LocalBaseURL string `env:"FILES_LOCAL_BASE_URL" envDefault:"/uploads"`

	B2KeyID  string `env:"B2_KEY_ID"`
	B2AppKey string `env:"B2_APP_KEY"`
	B2Bucket string `env:"B2_BUCKET"`

	MaxUploadBytes int64 `env:"FILES_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}
