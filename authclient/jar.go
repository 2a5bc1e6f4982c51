package authclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync/atomic"

	"golang.org/x/net/publicsuffix"
)

// sessionJar is installed once on the HTTP client. Reset swaps the cookies it
// delegates to, so requests in flight never see the client's Jar field change.
type sessionJar struct {
	current atomic.Pointer[cookiejar.Jar]
}

func newSessionJar() (*sessionJar, error) {
	j := &sessionJar{}
	if err := j.Reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.current.Load().SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	return j.current.Load().Cookies(u)
}

// Reset drops every cookie held so far.
func (j *sessionJar) Reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("authclient: cookie jar: %w", err)
	}
	j.current.Store(jar)
	return nil
}
