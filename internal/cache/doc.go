// Package cache memoizes user reads. The service layer reads through a
// UserCache; change events drop stale entries via InvalidationHandler.
package cache
