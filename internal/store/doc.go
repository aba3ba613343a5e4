// Package store declares the persistence contracts for users, credentials,
// the license counter and attendance logs, together with the sentinel
// errors and transaction helpers shared by their implementations.
package store
