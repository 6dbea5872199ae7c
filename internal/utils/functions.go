package utils

import (
	"net/url"
	"path"
)

// MatchURL reports whether targetURL matches one of the patterns. A pattern
// matches when it is equal to the target, or when scheme and host are equal
// and its path matches the target path as a path.Match glob. Query strings
// are ignored for glob matches.
func MatchURL(patternURLs []string, targetURL string) bool {
	parsedTargetURL, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	for _, patternURL := range patternURLs {
		if patternURL == targetURL {
			return true
		}
		parsedPatternURL, errParse := url.Parse(patternURL)
		if errParse != nil {
			continue
		}

		matched, errMatch := path.Match(parsedPatternURL.Path, parsedTargetURL.Path)
		if errMatch != nil || !matched {
			continue
		}
		if parsedPatternURL.Scheme == parsedTargetURL.Scheme && parsedPatternURL.Host == parsedTargetURL.Host {
			return true
		}
	}
	return false
}
