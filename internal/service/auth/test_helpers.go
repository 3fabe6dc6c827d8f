package auth

import "time"

// NewTestJWTService builds a JWT service with an injectable time source for
// deterministic expiry tests. Test-only; production code must go through
// NewJWTService so configuration is validated.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     0,
	}
}
