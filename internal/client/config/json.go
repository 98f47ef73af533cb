package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/moodkeeper/internal/flagx"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "false"/"empty", so a partial file only
// overrides what it names.
type JsonConfig struct {
	DatabasePath        *string         `json:"database_path"`
	Encrypt             *bool           `json:"encrypt"`
	RemoteBackend       *string         `json:"remote_backend"`
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	AccessToken         *string         `json:"access_token"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	S3                  *JsonS3Config   `json:"s3"`
	OpenAIKey           *string         `json:"openai_api_key"`
	OpenAIModel         *string         `json:"openai_model"`
	CompressionTimeout  *timex.Duration `json:"compression_timeout"`
	Pretty              *bool           `json:"pretty"`
	Debug               *bool           `json:"debug"`
}

type JsonS3Config struct {
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	UsePathStyle    bool   `json:"use_path_style"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.Encrypt, jc.Encrypt)
	set(&cfg.RemoteBackend, jc.RemoteBackend)
	set(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	set(&cfg.AccessToken, jc.AccessToken)
	set(&cfg.OpenAIKey, jc.OpenAIKey)
	set(&cfg.OpenAIModel, jc.OpenAIModel)
	set(&cfg.Pretty, jc.Pretty)
	set(&cfg.Debug, jc.Debug)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.CompressionTimeout != nil {
		cfg.CompressionTimeout = jc.CompressionTimeout.Duration
	}
	if jc.S3 != nil {
		cfg.S3 = S3Config(*jc.S3)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
