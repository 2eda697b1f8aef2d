package utils

import (
	"crypto/rand"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// PhoneDigits reduces a sender address such as "whatsapp:+90 555 111 22 33"
// to its digits.
func PhoneDigits(sender string) string {
	sender = strings.TrimPrefix(strings.TrimSpace(sender), "whatsapp:")
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, sender)
}
