// Package ui provides semantic text formatting for cfgseal console output.
//
// Formatters colorize text when the terminal supports it. When NO_COLOR is
// set or the terminal lacks color support, text decorations are used
// instead:
//   - Path: 'single quotes'
//   - Others: no decoration
package ui
