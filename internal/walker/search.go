package walker

import (
	"context"
	"strings"

	"github.com/bethropolis/filekit/internal/fsys"
)

// SearchPattern turns an extension into a filter pattern: "js" becomes
// "*.js". A match that already starts with "." is used verbatim as a
// pattern, so ".js" names a segment called ".js".
func SearchPattern(match string) string {
	if strings.HasPrefix(match, ".") {
		return match
	}
	return "*." + match
}

// Search lists entries under dir whose tagged path matches the pattern
// derived from match. A dir that is not a directory yields an empty result.
// Any filter in opts is replaced.
func Search(ctx context.Context, f fsys.FS, dir, match string, opts ...Option) ([]Entry, error) {
	if !fsys.IsDir(ctx, f, dir) {
		return []Entry{}, nil
	}
	opts = append(opts[:len(opts):len(opts)], WithFilter(SearchPattern(match)))
	return List(ctx, f, dir, opts...)
}
