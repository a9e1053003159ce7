// Package config holds the runtime settings of the development API server.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/flagx"
)

// Config holds runtime settings for the development story API server.
type Config struct {
	// Addr is the host:port the HTTP server listens on.
	Addr string

	// DatabaseDSN is the sqlite DSN of the server database.
	DatabaseDSN string

	// JWTSecret signs the bearer tokens. Override it outside of local
	// development.
	JWTSecret string

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration

	// PhotoDir is where uploaded story photos are stored.
	PhotoDir string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "dinostories-server.db"
	c.JWTSecret = "dev-secret"
	c.TokenTTL = 24 * time.Hour
	c.PhotoDir = "uploads"
}

// LoadConfig constructs a Config from defaults, the DINOSTORIES_JWT_SECRET
// environment variable and command-line flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if secret := os.Getenv("DINOSTORIES_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}

	parseFlags(cfg)
	return cfg
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   listen address (default from Config)
//	-d string   sqlite DSN of the server database
//	-u string   directory for uploaded photos
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-u"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "b", cfg.Addr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite DSN of the server database")
	fs.StringVar(&cfg.PhotoDir, "u", cfg.PhotoDir, "directory for uploaded photos")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
