// Package redis backs the user read cache and the token revocation list
// with Redis, for deployments that run more than one API instance.
package redis
