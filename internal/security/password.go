package security

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest. The digest embeds its own
// salt and cost, so verification needs nothing beyond the stored string.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	return string(b), err
}

// CheckPassword fails closed: a malformed stored digest is just "false",
// never an error the caller has to handle.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
