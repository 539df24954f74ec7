package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries environment overrides; flags in main take precedence when
// set explicitly.
type Config struct {
	Addr             string        `env:"POSTFLOW_ADDR" envDefault:":8080"`
	SchedulePath     string        `env:"POSTFLOW_SCHEDULE_PATH" envDefault:"schedule.json"`
	ContentBackend   string        `env:"POSTFLOW_CONTENT_BACKEND" envDefault:"file"` // file | sqlite
	ContentPath      string        `env:"POSTFLOW_CONTENT_PATH" envDefault:"queue.json"`
	ContentDB        string        `env:"POSTFLOW_CONTENT_DB" envDefault:"content.db"`
	PublisherURL     string        `env:"POSTFLOW_PUBLISHER_URL" envDefault:"http://localhost:9090/publish"`
	PublishTimeout   time.Duration `env:"POSTFLOW_PUBLISH_TIMEOUT" envDefault:"30s"`
	DispatchInterval time.Duration `env:"POSTFLOW_DISPATCH_INTERVAL" envDefault:"1m"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
