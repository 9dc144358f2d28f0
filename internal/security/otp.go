package security

import (
	"crypto/rand"
	"math/big"
)

const otpDigits = "0123456789"

// GenerateOTP returns a fixed-width numeric code of the given length, each
// digit drawn uniformly from crypto/rand. Leading zeros are preserved. Codes
// are single-use; the caller clears the stored copy once it is consumed.
func GenerateOTP(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(otpDigits)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = otpDigits[n.Int64()]
	}
	return string(out), nil
}
