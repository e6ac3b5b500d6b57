package envinfo

import (
	"fmt"
	"runtime"
)

const (
	product = "Jasper"

	// fallback is substituted for any field the host environment
	// cannot resolve, so the User-Agent always has a stable shape.
	fallback = "unknown"
)

// Info describes the host environment embedding the client. It is resolved
// once at client construction and rendered into the User-Agent header.
//
// GUI shells should fill Framework/FrameworkVersion with their own version
// API; the zero value falls back to "unknown" rather than special-casing any
// particular host framework.
type Info struct {
	Product          string
	ProductVersion   string
	Framework        string
	FrameworkVersion string
	OSType           string
	OSRelease        string
}

// Default resolves everything the Go runtime can answer by itself.
func Default() Info {
	return Info{
		Product:        product,
		ProductVersion: fallback,
		OSType:         runtime.GOOS,
		OSRelease:      fallback,
	}
}

// UserAgent renders the canonical four-part identification string:
//
//	<product>/<app-version> <runtime>/<runtime-version> <host-framework>/<host-version> <os-type>/<os-release>
func (i Info) UserAgent() string {
	return fmt.Sprintf(
		"%s/%s go/%s %s/%s %s/%s",
		orFallback(i.Product), orFallback(i.ProductVersion),
		goVersion(),
		orFallback(i.Framework), orFallback(i.FrameworkVersion),
		orFallback(i.OSType), orFallback(i.OSRelease),
	)
}

func orFallback(s string) string {
	if s == "" {
		return fallback
	}
	return s
}

// goVersion strips the "go" prefix from runtime.Version() so the
// User-Agent reads "go/1.21.0" rather than "go/go1.21.0". Development
// toolchains report strings like "devel +abcdef" which are kept as-is.
func goVersion() string {
	v := runtime.Version()
	if len(v) > 2 && v[:2] == "go" {
		return v[2:]
	}
	return v
}
