// Package otp issues and verifies short numeric login codes.
//
// A store holds at most one live code per email. Put overwrites, and
// Consume succeeds at most once per issued code.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const CodeLength = 6

type Store interface {
	Put(ctx context.Context, email, code string) error
	// Consume deletes the entry and reports true only when code matches
	// the live code for email.
	Consume(ctx context.Context, email, code string) (bool, error)
	Discard(ctx context.Context, email string) error
}

var codeSpace = big.NewInt(1_000_000)

// Generate returns a uniformly random 6 digit code, leading zeros included.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
