package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		Host:             "127.0.0.1",
		Port:             8080,
		LogLevel:         "INFO",
		DefaultFPS:       30,
		DefaultHeight:    400,
		UpdateThrottleMS: 250,
		SampleWindowMS:   1000,
		SnapshotTTLSec:   3600,
		RedisHost:        "localhost",
		RedisPort:        6379,
	}
}

func TestAppConfigValidate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.DefaultFPS = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.UpdateThrottleMS = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SampleWindowMS = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SnapshotTTLSec = 0
	assert.Error(t, cfg.Validate())
}
