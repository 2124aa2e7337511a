package config

import "strings"

// Sanitize returns a copy of cfg that is safe to log.
func Sanitize(cfg *NodeConfig) *NodeConfig {
	sanitized := *cfg
	sanitized.Peers = append([]string(nil), cfg.Peers...)

	if sanitized.HTTP.BearerToken != "" {
		sanitized.HTTP.BearerToken = maskSecret(sanitized.HTTP.BearerToken)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
