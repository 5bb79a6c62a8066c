// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// IsURL reports whether input names a remote filing (http or https) rather
// than a local path.
func IsURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// unsafeSlugChars matches runs of characters kept out of local file names.
var unsafeSlugChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Slug returns a filesystem-safe filename stem for a filing URL: the last
// path element without its extension, or a hash of the URL when the path
// has no usable name.
func Slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return urlHashSlug(rawURL)
	}
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Trim(unsafeSlugChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		return urlHashSlug(rawURL)
	}
	return base
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}
