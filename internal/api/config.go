package api

import "time"

type Config struct {
	Proxy ProxyConfig `yaml:"proxy"`
	HTTP  HTTPConfig  `yaml:"http"`
}

type ProxyConfig struct {
	Header  string   `yaml:"header"`
	Trusted []string `yaml:"trusted"`
}

// HTTPConfig tunes the listener. WriteTimeout bounds the whole
// response, so it must cover streaming a full report download.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}
