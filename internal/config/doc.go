// Package config handles configuration loading for memberd.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from MEMBERD_CONFIG environment variable
//  2. ./config.yaml (current directory)
//  3. ~/.config/memberd/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${MEMBERD_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "1h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/memberd/memberd.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${MEMBERD_JWT_SECRET}"  # Required, at least 32 bytes
//	  token_ttl: "1h"                      # Defaults to 1h
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Metrics:
//
//	metrics:
//	  enabled: true
//	  addr: "127.0.0.1:9090"
//	  path: "/metrics"
//
// Localization:
//
//	i18n:
//	  default_locale: "ko"
//
// # Validation
//
// Load() validates:
//
//   - Server address presence
//   - Database path presence
//   - JWT secret minimum length (32 bytes)
//   - Duration format validity
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/memberd/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
