package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vidstate/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	defaultFPS = configVar[int]{
		envKey:       "SERVER_DEFAULT_FPS",
		flagKey:      "default-fps",
		defaultValue: 30,
	}
	defaultHeight = configVar[int]{
		envKey:       "SERVER_DEFAULT_HEIGHT",
		flagKey:      "default-height",
		defaultValue: 400,
	}
	updateThrottleMS = configVar[int]{
		envKey:       "SERVER_UPDATE_THROTTLE_MS",
		flagKey:      "update-throttle-ms",
		defaultValue: 250,
	}
	sampleWindowMS = configVar[int]{
		envKey:       "SERVER_SAMPLE_WINDOW_MS",
		flagKey:      "sample-window-ms",
		defaultValue: 1000,
	}
	snapshotTTLSec = configVar[int]{
		envKey:       "SERVER_SNAPSHOT_TTL_SEC",
		flagKey:      "snapshot-ttl-sec",
		defaultValue: 60 * 60 * 24,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(defaultFPS.flagKey, defaultFPS.defaultValue, "Fallback frames per second before detection")
	pflag.Int(defaultHeight.flagKey, defaultHeight.defaultValue, "Default player height in pixels")
	pflag.Int(updateThrottleMS.flagKey, updateThrottleMS.defaultValue, "Minimum interval between non-forced state reports")
	pflag.Int(sampleWindowMS.flagKey, sampleWindowMS.defaultValue, "Frame-rate sampling window")
	pflag.Int(snapshotTTLSec.flagKey, snapshotTTLSec.defaultValue, "Snapshot retention in redis")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(defaultFPS.flagKey, defaultFPS.envKey)
	viper.BindEnv(defaultHeight.flagKey, defaultHeight.envKey)
	viper.BindEnv(updateThrottleMS.flagKey, updateThrottleMS.envKey)
	viper.BindEnv(sampleWindowMS.flagKey, sampleWindowMS.envKey)
	viper.BindEnv(snapshotTTLSec.flagKey, snapshotTTLSec.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(defaultFPS.flagKey, defaultFPS.defaultValue)
	viper.SetDefault(defaultHeight.flagKey, defaultHeight.defaultValue)
	viper.SetDefault(updateThrottleMS.flagKey, updateThrottleMS.defaultValue)
	viper.SetDefault(sampleWindowMS.flagKey, sampleWindowMS.defaultValue)
	viper.SetDefault(snapshotTTLSec.flagKey, snapshotTTLSec.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		DefaultFPS:       viper.GetInt(defaultFPS.flagKey),
		DefaultHeight:    viper.GetInt(defaultHeight.flagKey),
		UpdateThrottleMS: viper.GetInt(updateThrottleMS.flagKey),
		SampleWindowMS:   viper.GetInt(sampleWindowMS.flagKey),
		SnapshotTTLSec:   viper.GetInt(snapshotTTLSec.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
