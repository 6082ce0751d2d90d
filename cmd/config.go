package main

import "time"

type Config struct {
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=8888"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=5s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}
