// Package config loads runtime configuration for the moodkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds. Every key is optional:
//
//	{
//	  "database_path": "moodkeeper.db",
//	  "encrypt": false,
//	  "remote_backend": "grpc",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "<jwt>",
//	  "request_timeout": "5s",
//	  "online_check_interval": "3s",
//	  "s3": {"bucket": "moods", "prefix": "moodkeeper", "region": "eu-west-1"},
//	  "openai_api_key": "sk-...",
//	  "openai_model": "gpt-4o-mini",
//	  "compression_timeout": "45s",
//	  "pretty": true,
//	  "debug": false
//	}
//
// The package does not read environment variables directly; the S3 backend
// still falls back to the default AWS credential chain.
package config
