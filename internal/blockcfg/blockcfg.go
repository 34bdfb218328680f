// Package blockcfg reads the key/value configuration authored on a content
// block, most importantly the catalog folder path the block should query.
package blockcfg

import (
	"net/url"
	"strings"
)

// Config is the authored key/value mapping for one block.
type Config map[string]string

// FolderPath returns the content path the block points at: an explicit link
// wins over the authored "folder" key. Empty when neither is present.
func (c Config) FolderPath() string {
	if link := strings.TrimSpace(c["link"]); link != "" {
		return NormalizeContentPath(link)
	}
	if folder := strings.TrimSpace(c["folder"]); folder != "" {
		return NormalizeContentPath(folder)
	}
	return ""
}

// NormalizeContentPath reduces an authored value to a bare content path:
// absolute URLs keep only their path component and a trailing ".html"
// authoring suffix is stripped.
func NormalizeContentPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		raw = u.Path
	}
	raw = strings.TrimSuffix(raw, ".html")
	return raw
}
