// Package logger provides leveled, colored logging for coffer.
//
// # Verbosity Levels
//
//   - --verbose: shows info messages
//   - --debug: shows everything, including scoped debug traces
//
// Warnings are always shown. Errors are only echoed with --verbose or
// --debug because the CLI prints its own user-facing failure message.
//
// # Scopes
//
// Debug lines carry the scope of the component that produced them:
//
//	log := Logger{Debug: true}.With("container::decrypt")
//	log.Debugf("header counter %d", h.Counter)
//	// [debug] container::decrypt header counter 74
package logger
