// Package errors provides the classified error type shared by mdlinkattrs packages.
//
// A ClassifiedError carries a category (config, validation, render, ...), a severity and
// structured context. Adapters translate those classifications into CLI exit codes and
// HTTP status codes.
//
// Example usage:
//
//	err := errors.ConfigError("invalid link pattern").
//		WithCause(compileErr).
//		WithContext("pattern", expr).
//		Build()
package errors
