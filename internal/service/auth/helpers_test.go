package auth

import (
	"time"

	"github.com/phrazzld/attendance-api/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// newTestJWTService builds a service with a fixed clock. Lifetimes are
// rounded to whole minutes.
func newTestJWTService(secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        int(lifetime / time.Minute),
		RefreshTokenLifetimeMinutes: int(24 * time.Hour / time.Minute),
	}, now)
	if err != nil {
		// ALLOW-PANIC
		panic(err)
	}
	return svc
}
