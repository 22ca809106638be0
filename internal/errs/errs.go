// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (field errors for forms, HTTPError for responses) so the
// client receives meaningful, actionable and consistent
// error messages, and so HTML routes know where to send the
// browser when an operation fails.
package errs
