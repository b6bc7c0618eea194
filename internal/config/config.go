package config

import (
	"flag"
	"fmt"
	"os"
)

// Config holds all configurable values for the server.
type Config struct {
	// WorkingDirectory is the base for relative path resolution. Empty
	// means the process working directory.
	WorkingDirectory    string
	Transport           string
	Port                int
	MaxRequestSizeMB    int
	OperationTimeoutSec int
	LogLevel            string
}

// ParseFlags parses the command-line flags and populates the Config struct.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.WorkingDirectory, "dir", "", "Working directory for relative paths (defaults to the current directory)")
	flag.StringVar(&cfg.Transport, "transport", "stdio", "Transport protocol (http or stdio)")
	flag.IntVar(&cfg.Port, "port", 8080, "Port for HTTP transport")
	flag.IntVar(&cfg.MaxRequestSizeMB, "max-request-size", 10, "Maximum request size in MB")
	flag.IntVar(&cfg.OperationTimeoutSec, "timeout", 30, "Operation timeout in seconds")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()
	return cfg
}

// Validate checks the configuration and fills in the working directory
// default. It is called once at startup, before any component is built.
func (c *Config) Validate() error {
	if c.WorkingDirectory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory not given and current directory unavailable: %v", err)
		}
		c.WorkingDirectory = cwd
	}

	info, err := os.Stat(c.WorkingDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("working directory does not exist: %s", c.WorkingDirectory)
		}
		return fmt.Errorf("error accessing working directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory is not a directory: %s", c.WorkingDirectory)
	}

	if c.Transport != "http" && c.Transport != "stdio" {
		return fmt.Errorf("transport must be 'http' or 'stdio'")
	}

	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535")
	}

	if c.MaxRequestSizeMB < 1 || c.MaxRequestSizeMB > 100 {
		return fmt.Errorf("max request size must be between 1 and 100 MB")
	}

	if c.OperationTimeoutSec < 5 || c.OperationTimeoutSec > 300 {
		return fmt.Errorf("operation timeout must be between 5 and 300 seconds")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}

	return nil
}

// MaxRequestSizeBytes returns the request size bound in bytes.
func (c *Config) MaxRequestSizeBytes() int64 {
	return int64(c.MaxRequestSizeMB) * 1024 * 1024
}
