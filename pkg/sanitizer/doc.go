// Package sanitizer provides input normalization for customer-supplied data.
//
// All functions are idempotent: applying them more than once produces the
// same result. Invalid input is handled gracefully, typically by returning
// an empty string rather than an error.
//
// Normalization includes:
//   - Strings: collapse internal whitespace, trim leading/trailing spaces
//   - Service labels: lowercase after whitespace normalization
package sanitizer
