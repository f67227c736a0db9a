// Package cli implements the interactive wallet console. The REPL models
// navigation in a routed UI: each command maps to a route, a route guard
// checks the session and role before every command, and refused commands
// print the redirect target instead of executing.
package cli
