package scheme

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	HTTP_REDIRECT_MAX = 10
)

var (
	ErrRedirectLoopDetected = errors.New("redirect loop detected")
	ErrUnsupportedScheme    = errors.New("unsupported scheme")
)

func checkHTTPRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > HTTP_REDIRECT_MAX {
		return ErrRedirectLoopDetected
	}
	return nil
}

// HTTPOptions is the options for HTTPProbe.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string

	// TLSVerify enables verification of the server certificate.
	TLSVerify bool
}

// HTTPProbe checks the target responds 200 to a GET request.
type HTTPProbe struct {
	target  *url.URL
	timeout time.Duration
	client  *http.Client
	request *http.Request
}

func NewHTTPProbe(rawURL string, opts HTTPOptions) (HTTPProbe, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HTTPProbe{}, err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme != "http" && u.Scheme != "https" {
		return HTTPProbe{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Hostname() == "" {
		return HTTPProbe{}, ErrMissingHost
	}
	if u.Path == "" {
		u.Path = "/"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return HTTPProbe{
		target:  u,
		timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !opts.TLSVerify,
				},
			},
			CheckRedirect: checkHTTPRedirect,
		},
		request: &http.Request{
			Method: http.MethodGet,
			URL:    u,
			Header: http.Header{
				"User-Agent": {opts.UserAgent},
			},
		},
	}, nil
}

func (p HTTPProbe) Name() string {
	return "http"
}

func (p HTTPProbe) Target() string {
	return p.target.String()
}

func (p HTTPProbe) responseToResult(resp *http.Response, err error) Result {
	r := Result{
		Name:   p.Name(),
		Target: p.Target(),
	}

	if err == nil {
		r.Message = fmt.Sprintf("proto=%s length=%d status=%s", resp.Proto, resp.ContentLength, strings.ReplaceAll(resp.Status, " ", "_"))
		r.OK = resp.StatusCode == http.StatusOK
	} else {
		r.Message = errorToMessage(err)
	}

	return r
}

func (p HTTPProbe) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := p.request.Clone(ctx)

	st := time.Now()
	resp, err := p.client.Do(req)
	d := time.Since(st)
	if err == nil {
		resp.Body.Close()
	}

	r := p.responseToResult(resp, err)
	r.CheckedAt = st
	r.Latency = d

	return timeoutOr(ctx, r)
}
