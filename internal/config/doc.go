// Package config defines the runtime configuration of the cabinkeeper CLI
// and the loaders that populate it.
//
// Sources, lowest to highest precedence:
//
//  1. Built-in defaults (LoadDefaults).
//  2. A config file given with -c / -config; JSON or YAML by extension.
//  3. A dotenv file: -env <path>, or ./.env when present. Variables already
//     set in the process environment are not overridden by it.
//  4. Environment variables (CABINKEEPER_*, plus API_KEY / GEMINI_API_KEY).
//  5. Command-line flags.
//
// Durations in files may be strings ("30s") or integer nanoseconds.
package config
