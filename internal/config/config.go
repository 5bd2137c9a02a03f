package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration.
type Config struct {
	// Server
	Host     string
	Port     int
	RESPPort int // 0 disables the Redis-protocol listener

	// Generator
	Profile    string
	Seed       int64
	BufferSize int // bytes; 0 selects the profile default

	// Database (optional: persistence is off when MongoURI is empty)
	MongoURI              string
	SnapshotInterval      time.Duration
	SnapshotRetentionDays int

	// Sessions
	SendBufferSize int

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load parses the command line with environment fallbacks.
func Load() *Config {
	return LoadArgs(flag.CommandLine, os.Args[1:])
}

// LoadArgs is Load against an explicit flag set. It exits through the
// flag set's error handling on bad flags.
func LoadArgs(fs *flag.FlagSet, args []string) *Config {
	c := &Config{}

	fs.StringVar(&c.Host, "host", envStr("RAND_HOST", "0.0.0.0"), "Listen host")
	fs.IntVar(&c.Port, "port", envInt("RAND_PORT", 8100), "HTTP and WebSocket port")
	fs.IntVar(&c.RESPPort, "resp-port", envInt("RAND_RESP_PORT", 6380), "Redis-protocol port (0 = disabled)")

	fs.StringVar(&c.Profile, "profile", envStr("RAND_PROFILE", "fast"), "Generator profile: fast or secure")
	fs.Int64Var(&c.Seed, "seed", envInt64("RAND_SEED", 0), "Generator seed (0 = random, fast profile only)")
	fs.IntVar(&c.BufferSize, "buffer", envInt("RAND_BUFFER", 0), "Engine buffer size in bytes (0 = profile default)")

	fs.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", ""), "MongoDB connection URI (empty = no persistence)")
	fs.DurationVar(&c.SnapshotInterval, "snapshot-interval", envDuration("SNAPSHOT_INTERVAL", 30*time.Second), "Interval between generator snapshots")
	fs.IntVar(&c.SnapshotRetentionDays, "snapshot-retention", envInt("SNAPSHOT_RETENTION_DAYS", 7), "Snapshot history retention in days (0 = keep forever)")

	fs.IntVar(&c.SendBufferSize, "send-buffer", envInt("SEND_BUFFER", 256), "Per-client send buffer size")

	fs.StringVar(&c.LogLevel, "log-level", envStr("LOG_LEVEL", "info"), "Log level")
	fs.BoolVar(&c.LogJSON, "log-json", envBool("LOG_JSON", false), "Log as JSON instead of console text")

	fs.Parse(args)

	return c
}

// Validate checks the values Load cannot reject on its own.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Profile) {
	case "fast", "secure":
	default:
		return fmt.Errorf("profile %q: want fast or secure", c.Profile)
	}
	if c.BufferSize != 0 && (c.BufferSize < 8 || c.BufferSize%4 != 0) {
		return fmt.Errorf("buffer size %d: must be >= 8 and a multiple of 4", c.BufferSize)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RESPPort < 0 || c.RESPPort > 65535 {
		return fmt.Errorf("resp port %d out of range", c.RESPPort)
	}
	if c.SendBufferSize < 1 {
		return fmt.Errorf("send buffer %d < 1", c.SendBufferSize)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("snapshot interval %s must be positive", c.SnapshotInterval)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RESPAddr is the Redis-protocol listen address.
func (c *Config) RESPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.RESPPort)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
