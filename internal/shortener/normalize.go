package shortener

import (
	"regexp"
	"strings"
)

var targetPattern = regexp.MustCompile(`^(https?://)?(.*)$`)

// NormalizeURL strips an http:// or https:// scheme from raw and prefixes the
// remainder with http://. Reachability and well-formedness are not checked.
// Surrounding whitespace is trimmed first, and a bare scheme such as "https://"
// is ErrInvalidURL.
func NormalizeURL(raw string) (string, error) {
	match := targetPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil || match[2] == "" {
		return "", ErrInvalidURL
	}

	return "http://" + match[2], nil
}
