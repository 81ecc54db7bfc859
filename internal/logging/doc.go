// Package logger provides leveled console logging for cfgseal.
//
// Output is prefixed with a colored tag and controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always shown.
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Read %d bytes", n)
package logger
