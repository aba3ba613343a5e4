// Package service implements the application's use cases on top of the
// store interfaces: recording attendance requests and managing user
// accounts, including the seat-limited account creation transaction.
//
// Services return sentinel errors (ErrEmailExists, ErrSeatLimitReached,
// ErrUserNotFound, ...) for expected conditions and wrap everything else
// in *ServiceError. The API layer maps both to HTTP status codes.
package service
