package api

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// Query holds optional query parameters for a request. Values may be strings
// or numbers; anything else is rendered with fmt.Sprint. Keys are unique and
// rendered in sorted order so the same mapping always produces the same
// string.
type Query map[string]any

// BuildPath joins a path prefix and a relative path into a normalized,
// URL-safe absolute path. Backslashes are treated as separators and replaced,
// redundant separators and "."/".." segments are collapsed, and the result
// always begins with exactly one "/". Both arguments may be empty.
func BuildPath(prefix, relPath string) string {
	joined := prefix + "/" + relPath
	joined = strings.ReplaceAll(joined, "\\", "/")
	return path.Clean("/" + joined)
}

// EncodeQuery renders a query mapping as "?k1=v1&k2=v2" with percent-encoded
// keys and values. An empty or nil mapping renders as "" with no "?".
func EncodeQuery(query Query) string {
	if len(query) == 0 {
		return ""
	}

	var b strings.Builder
	for i, k := range sortedKeys(query) {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprint(query[k])))
	}
	return b.String()
}

// DecodedQuery renders the mapping like EncodeQuery but without
// percent-encoding. Only for log readability, never for the wire.
func DecodedQuery(query Query) string {
	if len(query) == 0 {
		return ""
	}

	var b strings.Builder
	for i, k := range sortedKeys(query) {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(query[k]))
	}
	return b.String()
}

func sortedKeys(query Query) []string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
