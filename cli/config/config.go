package config

import (
	"fmt"
	"time"

	"github.com/botpost/courier/mirror"
	"github.com/botpost/courier/upload"
)

// Config represents a courier.yaml configuration file.
// All values act as defaults for courier send flags; CLI flags always
// override config values. The token is typically supplied via env
// expansion (token: ${COURIER_TOKEN}) rather than written in the file.
type Config struct {
	Host          string       `yaml:"host"`
	Token         string       `yaml:"token"`
	DefaultChatID string       `yaml:"default_chat_id"`
	SandboxRoot   string       `yaml:"sandbox_root"`
	ChunkSize     int64        `yaml:"chunk_size"`
	Timeout       Duration     `yaml:"timeout"`
	Journal       string       `yaml:"journal"`
	Mirror        MirrorConfig `yaml:"mirror"`
}

// MirrorConfig holds S3 mirror defaults from the config file.
type MirrorConfig struct {
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "2m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// UploadConfig converts the file config into the upload client config.
func (c *Config) UploadConfig() upload.Config {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	return upload.Config{
		Host:          host,
		Token:         c.Token,
		DefaultChatID: c.DefaultChatID,
		SandboxRoot:   c.SandboxRoot,
		ChunkSize:     c.ChunkSize,
		Timeout:       c.Timeout.Duration,
	}
}

// MirrorSettings converts the mirror section into the archiver config.
func (c *Config) MirrorSettings() mirror.Config {
	return mirror.Config{
		Bucket:       c.Mirror.Bucket,
		Prefix:       c.Mirror.Prefix,
		Region:       c.Mirror.Region,
		Endpoint:     c.Mirror.Endpoint,
		UsePathStyle: c.Mirror.S3PathStyle,
	}
}

// DefaultHost is the API host used when the config names none.
const DefaultHost = "api.telegram.org"
