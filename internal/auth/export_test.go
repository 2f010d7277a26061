package auth

import "time"

// SetClock overrides the issuer clock in tests.
func (i *Issuer) SetClock(now func() time.Time) {
	i.now = now
}
