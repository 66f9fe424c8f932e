package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/savari-labs/go-transit/routing"
	"github.com/savari-labs/go-transit/tracking"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) Config {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	return config
}

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed-origins"`
		Profiling      bool     `yaml:"profiling"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text|json
	} `yaml:"logging"`
	Search struct {
		K               int     `yaml:"k"`
		RadiusKM        float64 `yaml:"radius-km"`
		HorizonSeconds  int32   `yaml:"horizon-seconds"`
		NeutralSafety   float64 `yaml:"neutral-safety"`
		TransferPenalty float64 `yaml:"transfer-penalty"`
		MaxSpeedKMH     float64 `yaml:"max-speed-kmh"`
	} `yaml:"search"`
	Tracking struct {
		DelayThresholdMinutes int     `yaml:"delay-threshold-minutes"`
		DeviationKM           float64 `yaml:"deviation-km"`
		CooldownMinutes       int     `yaml:"cooldown-minutes"`
		ArrivalToleranceKM    float64 `yaml:"arrival-tolerance-km"`
		SessionTimeoutMinutes int     `yaml:"session-timeout-minutes"`
	} `yaml:"tracking"`
	Feeds struct {
		NetworkFile string `yaml:"network-file"`
		Watch       bool   `yaml:"watch"`
	} `yaml:"feeds"`
}

func DefaultConfig() Config {
	var config Config
	config.Server.Host = "0.0.0.0"
	config.Server.Port = 5002
	config.Logging.Level = "info"
	config.Logging.Format = "text"
	config.Search.K = 3
	config.Search.RadiusKM = 3.0
	config.Search.HorizonSeconds = 4 * 3600
	config.Search.NeutralSafety = 50.0
	config.Search.TransferPenalty = 5.0
	config.Search.MaxSpeedKMH = 80.0
	config.Tracking.DelayThresholdMinutes = 5
	config.Tracking.DeviationKM = 0.5
	config.Tracking.CooldownMinutes = 2
	config.Tracking.ArrivalToleranceKM = 0.1
	config.Tracking.SessionTimeoutMinutes = 15
	config.Feeds.NetworkFile = "./data/network.json"
	config.Feeds.Watch = true
	return config
}

func (self Config) SearchOptions() routing.Options {
	return routing.Options{
		K:               self.Search.K,
		RadiusKM:        self.Search.RadiusKM,
		HorizonSeconds:  self.Search.HorizonSeconds,
		NeutralSafety:   self.Search.NeutralSafety,
		TransferPenalty: self.Search.TransferPenalty,
		MaxSpeedKMH:     self.Search.MaxSpeedKMH,
	}
}

func (self Config) TrackingConfig() tracking.Config {
	return tracking.Config{
		DelayThreshold:     time.Duration(self.Tracking.DelayThresholdMinutes) * time.Minute,
		DeviationKM:        self.Tracking.DeviationKM,
		Cooldown:           time.Duration(self.Tracking.CooldownMinutes) * time.Minute,
		ArrivalToleranceKM: self.Tracking.ArrivalToleranceKM,
		SessionTimeout:     time.Duration(self.Tracking.SessionTimeoutMinutes) * time.Minute,
	}
}
