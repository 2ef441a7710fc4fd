package jira

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/devops-noc/jira-report-app/pkg/errors"
)

// Config carries credentials for both Jira endpoints. It is loaded
// from the environment, which is how the deployment injects secrets.
type Config struct {
	URL      string `envconfig:"JIRA_URL" required:"true"`
	Username string `envconfig:"JIRA_USERNAME" required:"true"`
	Password string `envconfig:"JIRA_PASSWORD" required:"true"`

	// JSM is a separate instance authenticated with a personal
	// access token instead of basic auth.
	JSMURL string `envconfig:"JSM_URL"`
	JSMPAT string `envconfig:"JSM_PAT"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, errors.WrapFail(err, "read jira credentials from environment")
	}
	return cfg, nil
}
