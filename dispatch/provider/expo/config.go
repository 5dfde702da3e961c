package expo

type configSource interface {
	GetExpo() Config
}

type Config struct {
	// Host overrides the default Expo push API host, used in tests and
	// self-hosted setups.
	Host string `yaml:"host,omitempty"`
}
