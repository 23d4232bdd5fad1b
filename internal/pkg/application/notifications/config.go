package notifications

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	NotificationType   string        = "diwise.alert.notification"
	DefaultTimeout     time.Duration = 10 * time.Second
	DefaultConcurrency int           = 8
)

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
	Timeout       time.Duration  `yaml:"timeout"`
	Concurrency   int            `yaml:"concurrency"`
}

// Endpoints returns the subscriber endpoints registered for notifications of type typ.
func (c *Config) Endpoints(typ string) []string {
	endpoints := []string{}
	if c == nil {
		return endpoints
	}

	for _, n := range c.Notifications {
		if n.Type != typ {
			continue
		}
		for _, s := range n.Subscribers {
			if s.Endpoint != "" {
				endpoints = append(endpoints, s.Endpoint)
			}
		}
	}

	return endpoints
}

func (c *Config) withDefaults() Config {
	cfg := Config{}
	if c != nil {
		cfg = *c
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return cfg
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
