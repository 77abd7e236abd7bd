package api

import (
	"io"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc      func(req *fhttp.Request) (*fhttp.Response, error)
	closedIdle  bool
	lastRequest *fhttp.Request
	lastBody    string
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar fhttp.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() fhttp.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                 { return nil }
func (m *mockHTTPClient) GetProxy() string                               { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)          {}
func (m *mockHTTPClient) GetFollowRedirect() bool                        { return false }
func (m *mockHTTPClient) CloseIdleConnections()                          { m.closedIdle = true }
func (m *mockHTTPClient) Get(url string) (*fhttp.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*fhttp.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.lastRequest = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.lastBody = string(data)
	}
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

// respondWith returns a doFunc that answers every request with body and status
func respondWith(status int, body string) func(req *fhttp.Request) (*fhttp.Response, error) {
	return func(req *fhttp.Request) (*fhttp.Response, error) {
		return &fhttp.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(fhttp.Header),
		}, nil
	}
}

// failWith returns a doFunc that fails every request with err
func failWith(err error) func(req *fhttp.Request) (*fhttp.Response, error) {
	return func(req *fhttp.Request) (*fhttp.Response, error) {
		return nil, err
	}
}
