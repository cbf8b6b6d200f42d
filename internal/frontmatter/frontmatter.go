// Package frontmatter reads and writes MDX documents that carry a YAML
// front-matter block between --- delimiters.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when a document has no front-matter block or the
// block is never terminated.
var ErrMalformed = errors.New("frontmatter: malformed record")

// Decode splits a document into its front-matter attributes and body. The
// document must open with a "---" line; the next "---" line closes the block.
// The body is everything after the closing delimiter line.
func Decode(text string) (map[string]interface{}, string, error) {
	const open = "---\n"

	var raw, body string
	switch {
	case strings.HasPrefix(text, open):
		rest := text[len(open):]
		switch {
		case strings.HasPrefix(rest, "---\n"):
			raw, body = "", rest[4:]
		case rest == "---":
			raw, body = "", ""
		default:
			if i := strings.Index(rest, "\n---\n"); i >= 0 {
				raw, body = rest[:i], rest[i+5:]
			} else if strings.HasSuffix(rest, "\n---") {
				raw, body = rest[:len(rest)-4], ""
			} else {
				return nil, "", fmt.Errorf("%w: unterminated front-matter block", ErrMalformed)
			}
		}
	case text == "---":
		return nil, "", fmt.Errorf("%w: unterminated front-matter block", ErrMalformed)
	default:
		return nil, "", fmt.Errorf("%w: missing opening delimiter", ErrMalformed)
	}

	attrs := map[string]interface{}{}
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &attrs); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	return normalizeAttrs(attrs), body, nil
}

// Encode serializes attributes and body into a single document. It is the
// inverse of Decode up to key ordering: Decode(Encode(a, b)) reproduces (a, b)
// for attribute maps of strings, booleans, numbers and string slices.
func Encode(attrs map[string]interface{}, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(attrs) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(attrs); err != nil {
			return "", fmt.Errorf("frontmatter: encode attributes: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("frontmatter: encode attributes: %w", err)
		}
	}
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.String(), nil
}

// normalizeAttrs rewrites decoded values into the shapes the rest of the
// system works with: nested map keys become strings and homogeneous string
// lists become []string instead of []interface{}.
func normalizeAttrs(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return normalizeAttrs(v)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, inner := range v {
			m[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return m
	case []interface{}:
		strs := make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				break
			}
			strs = append(strs, s)
		}
		if len(strs) == len(v) {
			return strs
		}
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = normalizeValue(v[i])
		}
		return out
	case time.Time:
		// Unquoted dates resolve to time.Time; records treat dates as
		// plain strings.
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
