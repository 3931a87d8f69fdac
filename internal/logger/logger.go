// Package logger is a thin structured wrapper over the standard logger.
// Fields are rendered as one JSON object per line and secret-bearing keys
// are masked before anything is written.
package logger

import (
	"encoding/json"
	"log"
	"strings"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"secret":       {},
	"password":     {},
	"pin":          {},
	"token":        {},
	"admin_secret": {},
	"adminsecret":  {},
}

func Info(message string, fields Fields) {
	log.Printf("INFO %s %s", message, fieldsJSON(fields))
}

func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}
	log.Printf("ERROR %s %s", message, fieldsJSON(base))
}

func fieldsJSON(fields Fields) string {
	if fields == nil {
		fields = Fields{}
	}
	masked := make(Fields, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			masked[k] = "******"
			continue
		}
		masked[k] = v
	}
	b, err := json.Marshal(masked)
	if err != nil {
		return `{}`
	}
	return string(b)
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
