package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	FPS            int     `envconfig:"FPS" default:"60"`
	TimeFactor     float64 `envconfig:"TIME_FACTOR" default:"1"`
	Autoplay       bool    `envconfig:"AUTOPLAY" default:"true"`
	AssetDir       string  `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:*"`
	JWTSecret      string  `envconfig:"JWT_SECRET"`
	OSCHost        string  `envconfig:"OSC_HOST"`
	OSCPort        int     `envconfig:"OSC_PORT" default:"57120"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string  `envconfig:"LOG_FORMAT" default:"text"`
	SampleScene    bool    `envconfig:"SAMPLE_SCENE" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins on commas for websocket origin checks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
