package config

import "time"

// Config is the top-level tflow configuration, corresponding to .tflow.yml.
type Config struct {
	ServerURL      string        `yaml:"server_url" koanf:"server_url"`
	Language       string        `yaml:"language" koanf:"language"`
	DownloadDir    string        `yaml:"download_dir" koanf:"download_dir"`
	PollInterval   time.Duration `yaml:"poll_interval" koanf:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	HistoryDB      string        `yaml:"history_db" koanf:"history_db"`
	SessionFile    string        `yaml:"session_file" koanf:"session_file"`
	AutoScroll     bool          `yaml:"auto_scroll" koanf:"auto_scroll"`
}

// fileConfig is the on-disk form of Config; durations are written as
// strings such as "1.5s" so the file stays hand-editable.
type fileConfig struct {
	ServerURL      string `yaml:"server_url"`
	Language       string `yaml:"language"`
	DownloadDir    string `yaml:"download_dir"`
	PollInterval   string `yaml:"poll_interval"`
	RequestTimeout string `yaml:"request_timeout"`
	HistoryDB      string `yaml:"history_db"`
	SessionFile    string `yaml:"session_file"`
	AutoScroll     bool   `yaml:"auto_scroll"`
}

// Languages maps the translation targets offered by the service to their
// display names.
var Languages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"hi": "Hindi",
	"ar": "Arabic",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ru": "Russian",
}
