package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteCodeAlphabet avoids ambiguous characters (0/O, 1/I).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the length of generated invite codes.
const InviteCodeLength = 8

// GenerateInviteCode generates a random uppercase invite code.
func GenerateInviteCode() (string, error) {
	b := make([]byte, InviteCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b), nil
}

// IsValidInviteCode reports whether the input looks like a generated code.
// Case and surrounding whitespace are ignored, matching lookup normalization.
func IsValidInviteCode(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != InviteCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(inviteCodeAlphabet, r) {
			return false
		}
	}
	return true
}
