// Package logging provides a simple leveled logging interface for the
// image resizer.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (cache decisions, codec calls)
//   - INFO: General operational messages
//   - WARN: Degraded behavior such as original-image fallbacks
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the command
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. libvips messages are routed through this
// package by media.InitVips.
package logging
