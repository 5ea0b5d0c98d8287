package logger

import (
	"log/slog"
	"strings"
)

const (
	emailKey         = "email"
	obfuscatedLength = 3
)

// Obfuscate masks the first n characters of the local part of an email.
// Strings without "@" are returned unchanged.
func Obfuscate(email string, n int) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	runes := []rune(local)
	if n > len(runes) {
		n = len(runes)
	}
	return strings.Repeat("*", n) + string(runes[n:]) + "@" + domain
}

func obfuscateEmailAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == emailKey && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Obfuscate(a.Value.String(), obfuscatedLength))
	}
	return a
}
