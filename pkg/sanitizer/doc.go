// Package sanitizer provides input normalization functions for user-entered text.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors.
//
// Normalization runs before validation and storage so that titles and names are
// stored in a consistent form:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Names: Same as strings; case and punctuation are preserved as entered
package sanitizer
