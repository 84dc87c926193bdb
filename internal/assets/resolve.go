package assets

import "strings"

// Resolver turns stored asset paths into absolute URLs. Already-absolute
// URLs pass through unchanged.
type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (r *Resolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "data:") {
		return path
	}
	return r.baseURL + "/" + strings.TrimPrefix(path, "/")
}
