package storage

// Config holds the S3/MinIO connection settings.
type Config struct {
	// Endpoint is host:port, optionally with an http or https scheme.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL applies when Endpoint has no scheme.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket receives published sprites and holds the game master object.
	Bucket string `mapstructure:"bucket" default:"sprites"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
