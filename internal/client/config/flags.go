package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/flagx"
)

var knownFlags = []string{"-d", "-e", "-r", "-a", "-t", "-i", "-b", "-k", "-m", "-pretty", "-debug"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   path to the local SQLite database
//	-e          seal local data with a passphrase
//	-r string   remote backend: grpc, s3 or none
//	-a string   address and port of the document server
//	-t string   access token (JWT) selecting the user namespace
//	-i int      remote request timeout in seconds
//	-b string   S3 bucket for the s3 backend
//	-k string   OpenAI API key
//	-m string   OpenAI model
//	-pretty     colorized console logs
//	-debug      debug logging
//
// os.Args is filtered with flagx.FilterArgs so other components' flags do
// not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.BoolVar(&cfg.Encrypt, "e", cfg.Encrypt, "seal local data with a passphrase")
	fs.StringVar(&cfg.RemoteBackend, "r", cfg.RemoteBackend, "remote backend (grpc, s3, none)")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	requestTimeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")
	fs.StringVar(&cfg.S3.Bucket, "b", cfg.S3.Bucket, "S3 bucket")
	fs.StringVar(&cfg.OpenAIKey, "k", cfg.OpenAIKey, "OpenAI API key")
	fs.StringVar(&cfg.OpenAIModel, "m", cfg.OpenAIModel, "OpenAI model")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "colorized console logs")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
