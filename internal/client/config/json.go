package config

import (
	"encoding/json"
	"os"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/flagx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "1500ms" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AccessToken        string         `json:"access_token"`
	EntityID           string         `json:"entity_id"`
	QuietPeriod        timex.Duration `json:"quiet_period"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	JournalPath        string         `json:"journal_path"`
}

// parseJson overlays Config with values loaded from a JSON file given by
// -c or -config. Members missing from the file keep their current value.
// Panics on read or unmarshal errors.
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

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	if jc.EntityID != "" {
		cfg.EntityID = jc.EntityID
	}
	if jc.QuietPeriod.Duration > 0 {
		cfg.QuietPeriod = jc.QuietPeriod.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.JournalPath != "" {
		cfg.JournalPath = jc.JournalPath
	}
}
