package store

import (
	"path/filepath"
	"strings"
)

// StatusContext is the user's current status snapshot: indicator -> value,
// canonicalized against the declared indicator settings. It is mutated only
// by explicit user action and read by the template selector, scorer, and
// listener.
type StatusContext map[string]string

// StatusFile returns the path of the current-status snapshot.
func (s *Store) StatusFile() string {
	return filepath.Join(s.Root, "current_status.yml")
}

// LoadStatus reads current_status.yml and canonicalizes each declared
// indicator's value. Unknown indicators pass through unchanged; a missing
// file yields an empty context.
func (s *Store) LoadStatus(settings *Settings) (StatusContext, error) {
	raw := map[string]string{}
	if err := loadYAML(s.StatusFile(), &raw); err != nil {
		return nil, err
	}

	ctx := StatusContext{}
	for indicator, value := range raw {
		key := strings.ToLower(strings.TrimSpace(indicator))
		decl, ok := settings.Statuses[key]
		if !ok {
			ctx[key] = value
			continue
		}
		ctx[key] = canonicalStatusValue(value, decl.Values)
	}
	return ctx, nil
}

// SetStatus updates one indicator in current_status.yml.
func (s *Store) SetStatus(indicator, value string) error {
	raw := map[string]string{}
	if err := loadYAML(s.StatusFile(), &raw); err != nil {
		return err
	}
	raw[strings.ToLower(strings.TrimSpace(indicator))] = value

	data, err := marshalYAML(raw)
	if err != nil {
		return err
	}
	return WriteAtomic(s.StatusFile(), data)
}

// canonicalStatusValue matches a raw value against the enumerated settings,
// ignoring case and punctuation. No match returns the trimmed raw value.
func canonicalStatusValue(raw string, declared []string) string {
	norm := normalizeStatusToken(raw)
	for _, v := range declared {
		if normalizeStatusToken(v) == norm {
			return v
		}
	}
	return strings.TrimSpace(raw)
}

func normalizeStatusToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches counts how many of the given requirements this context satisfies.
func (c StatusContext) Matches(reqs map[string]string) int {
	n := 0
	for indicator, want := range reqs {
		have, ok := c[strings.ToLower(strings.TrimSpace(indicator))]
		if ok && normalizeStatusToken(have) == normalizeStatusToken(want) {
			n++
		}
	}
	return n
}

// Satisfies reports whether every requirement matches.
func (c StatusContext) Satisfies(reqs map[string]string) bool {
	return len(reqs) == 0 || c.Matches(reqs) == len(reqs)
}
