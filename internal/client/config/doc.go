// Package config loads console configuration from, in increasing
// precedence: built-in defaults, the environment (with optional .env file),
// a JSON file named by -c/-config, and command-line flags.
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds.
package config
