package rockauto

import (
	"context"
	"net/url"
	"regexp"
)

// The anti-automation token is assigned to window._nck in an inline
// script on the landing page; some variants assign it through the
// parent frame instead.
var (
	nckPattern       = regexp.MustCompile(`window\._nck\s*=\s*"([^"]+)"`)
	parentNckPattern = regexp.MustCompile(`parent\.window\._nck\s*=\s*"([^"]+)"`)
)

// ensureSession performs the one-time landing page fetch that seeds
// the cookie jar and harvests the _nck token. It is idempotent, and it
// marks the session initialized even when the fetch fails or no token
// is present: requests then proceed without the bypass parameter
// instead of blocking on endless re-initialization.
func (c *Client) ensureSession(ctx context.Context) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.initialized {
		return
	}
	c.initialized = true

	res, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		c.logger.Warn("session initialization failed, continuing without bypass token", "error", err)
		return
	}

	body := res.Body()
	if m := nckPattern.FindSubmatch(body); m != nil {
		c.nckToken = string(m[1])
	} else if m := parentNckPattern.FindSubmatch(body); m != nil {
		c.nckToken = string(m[1])
	}

	if c.nckToken == "" {
		c.logger.Warn("no _nck token found on landing page")
	} else {
		c.logger.Debug("session initialized with bypass token")
	}
}

// bypassParam returns the URL-escaped _jnck value derived from the
// session token, or "" when no token is held. It never fails.
func (c *Client) bypassParam() string {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.nckToken == "" {
		return ""
	}
	return url.QueryEscape(c.nckToken)
}

// Reset discards the session token and re-arms initialization. The
// next request will fetch the landing page again.
func (c *Client) Reset() {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	c.nckToken = ""
	c.initialized = false
}
