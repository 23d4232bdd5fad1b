package alerts

import (
	"io"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/application/notifications"
	"github.com/diwise/hazard-alerts/pkg/types"
	yaml "gopkg.in/yaml.v2"
)

type AlertsConfig struct {
	DefaultTTL     int           `yaml:"defaultTTL"`
	TickInterval   time.Duration `yaml:"tickInterval"`
	StorageTimeout time.Duration `yaml:"storageTimeout"`
}

type Config struct {
	Alerts        AlertsConfig         `yaml:"alerts"`
	Notifications notifications.Config `yaml:",inline"`
	Zones         []types.Polygon      `yaml:"zones"`
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

	cfg.Alerts = cfg.Alerts.withDefaults()

	return &cfg, nil
}

func (c AlertsConfig) withDefaults() AlertsConfig {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = types.DefaultTTLSeconds
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.StorageTimeout <= 0 {
		c.StorageTimeout = 5 * time.Second
	}
	return c
}
