package feeds

import "strings"

// ConfigString returns the trimmed string value for key from feed.Config or a fallback.
func ConfigString(f Feed, key, fallback string) string {
	if f.Config != nil {
		if raw, ok := f.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"

	defaultUserAgent = "finai24-newsbot/3 (+https://finai24.it)"
)

// Headers builds the request headers for a feed (skips empty values).
func Headers(f Feed) map[string]string {
	headers := make(map[string]string, 4)

	headers["User-Agent"] = ConfigString(f, ConfigUserAgentKey, defaultUserAgent)
	if v := ConfigString(f, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(f, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	if v := ConfigString(f, ConfigCacheControlKey, ""); v != "" {
		headers["Cache-Control"] = v
	}

	return headers
}
