// Package events provides a small in-process publish/subscribe mechanism.
//
// Services emit events such as user.updated without knowing which
// handlers react to them; the user read cache registers a handler that
// drops stale entries.
package events
