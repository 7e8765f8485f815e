// Package config provides configuration for tasfmt.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← applied by the caller
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TASFMT_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← tasfmt.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # File format
//
//	[logging]
//	level = "debug"
//
//	[format]
//	combine = true
//
//	[actions]
//	order = ["L", "R", "U", "D", "J", "X"]
//
//	[actions.exclusive]
//	L = ["R"]
//	R = ["L"]
//
//	[actions.valued]
//	M = 2
//
//	[script]
//	timeout = "5s"
//
//	[watch]
//	debounce = "150ms"
//	write = true
//
// The actions.exclusive and actions.valued tables replace the built-in
// tables when present. Log levels are case-insensitive.
//
// # Environment
//
//	TASFMT_LOG_LEVEL       logging.level
//	TASFMT_COMBINE         format.combine
//	TASFMT_EXPAND          format.expand
//	TASFMT_SCRIPT_TIMEOUT  script.timeout
//	TASFMT_DEBOUNCE        watch.debounce
//	TASFMT_WATCH_WRITE     watch.write
package config
