package main

import (
	"flag"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devops-noc/jira-report-app/internal/api"
	"github.com/devops-noc/jira-report-app/internal/jobs"
	"github.com/devops-noc/jira-report-app/pkg/environment"
	"github.com/devops-noc/jira-report-app/pkg/errors"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`
	API         api.Config      `yaml:"API"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"Database"`

	Jobs jobs.Config `yaml:"Jobs"`
}

func loadConfig() (*Config, error) {
	path, err := filepath.Abs("config.yaml")
	if err != nil {
		return nil, errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFail(err, "read \"config.yaml\"")
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.WrapFail(err, "parse yaml")
	}

	if cfg.API.HTTP.Addr == "" {
		cfg.API.HTTP.Addr = ":8000"
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join("data", "scheduler.db")
	}

	if cfg.Jobs.SpoolDir == "" {
		cfg.Jobs.SpoolDir = os.TempDir()
	}

	if envFromFlags := getEnvFromFlags(); envFromFlags != nil {
		cfg.Environment = *envFromFlags
	}

	return &cfg, nil
}

func getEnvFromFlags() *environment.Env {
	raw := flag.String("env", "", "environment (dev, prod)")
	flag.Parse()
	if raw == nil {
		return nil
	}

	env := environment.FromString(*raw)
	return &env
}
