package session

import (
	"net/url"
	"strings"
)

// ParseFragment extracts the one-time session_id from an auth redirect.
// Accepts the full redirect URL ("https://.../dashboard#session_id=X&..."),
// a bare fragment ("#session_id=X" or "session_id=X"), or the bare id
// itself. Returns "" when nothing usable is present.
func ParseFragment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	frag := raw
	if u, err := url.Parse(raw); err == nil && u.Fragment != "" {
		frag = u.Fragment
	}
	frag = strings.TrimPrefix(frag, "#")

	if strings.Contains(frag, "session_id=") {
		for _, part := range strings.Split(frag, "&") {
			if v, ok := strings.CutPrefix(part, "session_id="); ok {
				if dec, err := url.QueryUnescape(v); err == nil {
					return dec
				}
				return v
			}
		}
		return ""
	}

	// A pasted bare id: accept only if it does not look like a URL or a
	// key=value pair.
	if strings.ContainsAny(frag, "/?&=#") {
		return ""
	}
	return frag
}
