package services

import (
	"time"

	"cinelist/internal/cache"
	"cinelist/internal/config"

	"github.com/sirupsen/logrus"
)

// ClientConfig carries what every catalog provider client needs besides its
// own endpoint settings.
type ClientConfig struct {
	Upstream  config.UpstreamConfig
	Cache     *cache.Cache
	ListTTL   time.Duration
	DetailTTL time.Duration
	Logger    *logrus.Logger
}

func (c *ClientConfig) withDefaults() ClientConfig {
	out := *c
	if out.Logger == nil {
		out.Logger = logrus.New()
	}
	if out.ListTTL <= 0 {
		out.ListTTL = 10 * time.Minute
	}
	if out.DetailTTL <= 0 {
		out.DetailTTL = time.Hour
	}
	if out.Upstream.Timeout <= 0 {
		out.Upstream.Timeout = 15 * time.Second
	}
	return out
}
