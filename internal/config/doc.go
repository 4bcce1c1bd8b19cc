// Package config provides configuration parsing for vroute.
//
// The configuration is stored in vroute.json, vroute.toml or vroute.yaml.
// This package handles loading, saving, and validating configuration, and
// the navigation scripts run by `vroute simulate`.
//
// # Configuration File Structure
//
//	{
//	  "base": "/app",
//	  "mode": "memory",
//	  "maxHistory": 1000,
//	  "routes": [
//	    {"name": "users", "pattern": "users", "children": [
//	      {"name": "user", "pattern": ":id", "end": true}
//	    ]}
//	  ],
//	  "server": {
//	    "listen": "localhost:7070",
//	    "wsPath": "/ws",
//	    "pingInterval": "30s"
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// # Usage
//
//	cfg, err := config.LoadFile("vroute.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
