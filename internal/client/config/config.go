package config

import "time"

// Config holds runtime settings for the listing editor.
//
// Fields:
//   - ServerEndpointAddr: host:port of the draft service gRPC endpoint.
//   - AccessToken: signed partner token sent with every call.
//   - EntityID: listing to open.
//   - QuietPeriod: idle time after the last edit before changes are saved.
//   - RequestTimeout: upper bound for a single save or publish call.
//   - JournalPath: SQLite file for unsaved edits; empty selects the default
//     location under the working directory.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	EntityID           string
	QuietPeriod        time.Duration
	RequestTimeout     time.Duration
	JournalPath        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.QuietPeriod = time.Second
	c.RequestTimeout = 10 * time.Second
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
