package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies account passwords with bcrypt at
// the cost the deployment configured. Carrying the cost in the type
// keeps it out of every call site; the identity service builds one
// hasher at construction and reuses it.
type PasswordHasher struct {
	Cost int // bcrypt cost factor, usually from BCRYPT_COST
}

// Hash returns the bcrypt hash of plain. A cost outside bcrypt's
// valid range falls back to bcrypt.DefaultCost, so a zero-value
// hasher still produces usable hashes.
func (p PasswordHasher) Hash(plain string) (string, error) {
	cost := p.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash. The bcrypt
// comparison is constant-time; callers get a bare yes/no and nothing
// about why a mismatch failed.
func (p PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
