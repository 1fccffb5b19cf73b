// Package netproxy provides the application's HTTP client. Its proxy
// configuration is read from the preference store and can be reloaded at
// any time.
package netproxy

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/juju/proxy"
	"golang.org/x/net/http/httpproxy"

	"github.com/kutama/igv/internal/prefs"
)

// Client is an HTTP client whose proxy follows the proxy preferences.
type Client struct {
	logger *log.Logger

	mu       sync.RWMutex
	settings proxy.Settings
	user     *url.Userinfo
	route    func(*url.URL) (*url.URL, error)

	http *http.Client
}

// New returns a client that connects directly until Reload is called.
func New(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{logger: logger}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = c.ProxyURL
	c.http = &http.Client{Transport: transport, Timeout: 2 * time.Minute}
	return c
}

// HTTPClient returns the shared client. Its proxy changes with Reload.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Settings returns the proxy settings currently in effect.
func (c *Client) Settings() proxy.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Reload reads the proxy preferences from r. Idle connections are closed
// so the next request uses the new route.
func (c *Client) Reload(r prefs.Reader) error {
	settings, user, err := settingsFrom(r)
	if err != nil {
		return err
	}

	var route func(*url.URL) (*url.URL, error)
	if settings.HasProxySet() {
		cfg := &httpproxy.Config{
			HTTPProxy:  settings.Http,
			HTTPSProxy: settings.Https,
			NoProxy:    settings.FullNoProxy(),
		}
		route = cfg.ProxyFunc()
	}

	c.mu.Lock()
	c.settings = settings
	c.user = user
	c.route = route
	c.mu.Unlock()

	if t, ok := c.http.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	if route == nil {
		c.logger.Printf("netproxy: direct connections")
	} else {
		c.logger.Printf("netproxy: using %s (bypass %q)", settings.Http, settings.FullNoProxy())
	}
	return nil
}

func settingsFrom(r prefs.Reader) (proxy.Settings, *url.Userinfo, error) {
	host := strings.TrimSpace(r.Get(prefs.KeyProxyHost))
	kind := strings.ToUpper(r.Get(prefs.KeyProxyType))
	if !prefs.AsBool(r, prefs.KeyUseProxy) || host == "" || kind == prefs.ProxyDirect {
		return proxy.Settings{}, nil, nil
	}

	scheme := "http"
	if kind == prefs.ProxySOCKS {
		scheme = "socks5"
	}
	addr := host
	if port := strings.TrimSpace(r.Get(prefs.KeyProxyPort)); port != "" {
		addr = net.JoinHostPort(host, port)
	}
	u, err := url.Parse(scheme + "://" + addr)
	if err != nil {
		return proxy.Settings{}, nil, fmt.Errorf("proxy address %q: %w", addr, err)
	}

	var user *url.Userinfo
	if prefs.AsBool(r, prefs.KeyProxyAuthenticate) {
		if name := r.Get(prefs.KeyProxyUser); name != "" {
			user = url.UserPassword(name, prefs.DecodePassword(r.Get(prefs.KeyProxyPassword)))
		}
	}

	return proxy.Settings{
		Http:    u.String(),
		Https:   u.String(),
		NoProxy: r.Get(prefs.KeyProxyWhitelist),
	}, user, nil
}

// ProxyURL picks the proxy for req. It is installed as the transport's
// Proxy function. Hosts on the bypass list and loopback addresses are
// reached directly.
func (c *Client) ProxyURL(req *http.Request) (*url.URL, error) {
	c.mu.RLock()
	route, user := c.route, c.user
	c.mu.RUnlock()

	if route == nil {
		return nil, nil
	}
	u, err := route(req.URL)
	if err != nil || u == nil {
		return nil, err
	}
	withUser := *u
	withUser.User = user
	return &withUser, nil
}
