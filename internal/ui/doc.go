// Package ui provides semantic text formatting for coffer output.
//
// Formatters render content by role (paths, entry names, commands, status
// marks). With color available they colorize; with NO_COLOR set or on a dumb
// terminal they fall back to text decorations:
//
//	ui.Code.Sprint("coffer list")   // `coffer list`
//	ui.Entry.Sprint("seed/btc")     // 'seed/btc'
//	ui.Muted.Sprint("not found")    // (not found)
//
// SuccessLine, ErrorLine and HintLine prefix a message with ✓, ✗ and →.
package ui
