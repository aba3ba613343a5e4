// Package auth issues and validates session tokens, hashes and verifies
// passwords, and tracks signed-out tokens.
package auth
