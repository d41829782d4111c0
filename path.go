package filekit

import (
	"regexp"
	"runtime"
	"strings"
)

var (
	posixPath = []*regexp.Regexp{
		regexp.MustCompile(`^(\.{1,2}/)?[^:]+$`),
		regexp.MustCompile(`^/[^:]+$`),
	}
	windowsPath = []*regexp.Regexp{
		regexp.MustCompile(`^(\.{1,2}/)?[^:/*?|"<>]+$`),
		regexp.MustCompile(`^[a-zA-Z]:\\[^,:;/*?|!'"<>\[\]{}\t\r\n]+$`),
	}
)

// IsPath reports whether str, with surrounding whitespace trimmed, looks like
// a filesystem path on the host platform. Nothing is checked on disk. Strings
// containing ':' (URLs, for instance) are rejected on POSIX.
func IsPath(str string) bool {
	return isPathOn(runtime.GOOS, str)
}

func isPathOn(goos, str string) bool {
	str = strings.TrimSpace(str)
	rules := posixPath
	if goos == "windows" {
		rules = windowsPath
	}
	for _, re := range rules {
		if re.MatchString(str) {
			return true
		}
	}
	return false
}
