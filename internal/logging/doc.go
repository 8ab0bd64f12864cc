// Package logging is a thin leveled wrapper over the standard log
// package: debug, info, warn, error and fatal, with the threshold taken
// from the LOG_LEVEL environment variable (or DEBUG=1 as a shortcut).
// Everything below the threshold is dropped; there is no structured
// output and no dependency beyond the standard library.
package logging
