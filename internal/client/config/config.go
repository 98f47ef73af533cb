package config

import (
	"fmt"
	"time"
)

// Remote backends understood by the client.
const (
	RemoteGRPC = "grpc"
	RemoteS3   = "s3"
	RemoteNone = "none"
)

// Config holds runtime settings for the moodkeeper client.
//
// Units: all intervals and timeouts are time.Duration values.
type Config struct {
	DatabasePath string
	Encrypt      bool

	RemoteBackend       string
	ServerEndpointAddr  string
	AccessToken         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	S3 S3Config

	OpenAIKey          string
	OpenAIModel        string
	CompressionTimeout time.Duration

	Pretty bool
	Debug  bool
}

// S3Config selects the bucket used by the s3 backend.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "moodkeeper.db"
	c.RemoteBackend = RemoteGRPC
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.S3.Prefix = "moodkeeper"
	c.OpenAIModel = "gpt-4o-mini"
	c.CompressionTimeout = 45 * time.Second
	c.Pretty = true
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	switch c.RemoteBackend {
	case RemoteGRPC:
		if c.ServerEndpointAddr == "" {
			return fmt.Errorf("remote backend %q needs a server address", c.RemoteBackend)
		}
	case RemoteS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("remote backend %q needs a bucket", c.RemoteBackend)
		}
	case RemoteNone:
	default:
		return fmt.Errorf("unknown remote backend %q", c.RemoteBackend)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
