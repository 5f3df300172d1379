// Package config loads runtime configuration for the listing editor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the draft service
//	-t string   partner access token
//	-n string   listing id
//	-q int      quiet period (milliseconds)
//	-w int      request timeout (seconds)
//	-j string   journal database path
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "entity_id": "bratislava-taxi-123",
//	  "quiet_period": "1s",
//	  "request_timeout": "10s",
//	  "journal_path": "/home/me/.taxivision/journal.db"
//	}
package config
