// Package config loads runtime configuration for the Campus Connect CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend API
//	-t int        request timeout (seconds)
//	-d string     path to the local session database
//	-degraded     allow a local demo session when the backend is unreachable
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:5000",
//	  "request_timeout": "15s",
//	  "database_path": "campus.db",
//	  "allow_degraded": false
//	}
//
// Note: this package does not read environment variables; use the JSON file
// or flags to configure values.
package config
