package utils // package utils provides small helpers shared across the service

import (
    "crypto/rand"
    "fmt"
    "math/big"
)

// codeAlphabet is the character set for confirmation codes.  Ambiguous
// characters (0/O, 1/I/L) are excluded so codes survive being read aloud
// over the phone.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ConfirmationCode returns a random code of n characters drawn from
// codeAlphabet using crypto/rand.  Uniqueness is not guaranteed here; the
// booking store enforces it with a unique index and callers retry on
// collision.
func ConfirmationCode(n int) (string, error) {
    if n < 1 {
        return "", fmt.Errorf("code length must be at least 1, got %d", n)
    }
    out := make([]byte, n)
    max := big.NewInt(int64(len(codeAlphabet)))
    for i := range out {
        idx, err := rand.Int(rand.Reader, max)
        if err != nil {
            return "", err
        }
        out[i] = codeAlphabet[idx.Int64()]
    }
    return string(out), nil
}
