package security

import (
	"fmt"
	"net/url"
	"strings"
)

// OriginValidator decides whether a browser origin may talk to the server.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// OriginList allows the configured origins plus the server's own address.
type OriginList struct {
	origins map[string]struct{}
	hosts   map[string]struct{}
}

// NewOriginValidator builds an OriginList. allowed holds full origins such
// as "https://docs.example.com"; host and port describe where the server
// listens and are always allowed, as are localhost and 127.0.0.1 on port.
func NewOriginValidator(allowed []string, host string, port int) *OriginList {
	v := &OriginList{
		origins: make(map[string]struct{}, len(allowed)),
		hosts:   make(map[string]struct{}, 3),
	}
	for _, o := range allowed {
		v.origins[strings.TrimSuffix(strings.ToLower(o), "/")] = struct{}{}
	}
	for _, h := range []string{host, "localhost", "127.0.0.1"} {
		if h == "" || h == "0.0.0.0" || h == "::" {
			continue
		}
		v.hosts[strings.ToLower(fmt.Sprintf("%s:%d", h, port))] = struct{}{}
	}
	return v
}

// IsAllowedOrigin reports whether origin is permitted. Only http and https
// origins are ever accepted.
func (v *OriginList) IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if _, ok := v.origins[strings.ToLower(u.Scheme+"://"+u.Host)]; ok {
		return true
	}
	_, ok := v.hosts[strings.ToLower(u.Host)]
	return ok
}
