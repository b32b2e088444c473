package common

import "strings"

var logSanitizer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// SanitizeForLog strips line breaks and tabs from caller-controlled values
// before they reach a log line.
func SanitizeForLog(value string) string {
	return logSanitizer.Replace(value)
}
