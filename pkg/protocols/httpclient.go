package protocols

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

const formContentType = "application/x-www-form-urlencoded"

// PostClient submits form-encoded orders and streams each response body
// into the order's scratch file.
type PostClient struct {
	client  *http.Client
	url     string
	headers map[string]string
	traffic byteCounter
}

func NewPostClient(cfg *config.TargetConfig) (*PostClient, error) {
	c := &PostClient{
		url:     cfg.URL,
		headers: cfg.Headers,
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DisableKeepAlives:   !cfg.KeepAlive,
		DisableCompression:  !cfg.Compression,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			return dialContextWithBytesTracked(ctx, dialer, network, address, &c.traffic)
		},
	}

	if cfg.Version == "2" {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, errors.Wrap(err, "unable to enable http2")
		}
	}

	c.client = &http.Client{
		Transport: tr,
		Timeout:   cfg.RequestTimeout,
	}
	if !cfg.Redirect {
		c.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return c, nil
}

// Post sends p's body and copies the response into p. The scratch file is
// closed on return whatever the outcome.
func (c *PostClient) Post(ctx context.Context, p *PendingRequest) (int, error) {
	req, err := c.createRequest(ctx, p.Body)
	if err != nil {
		p.closeFile()
		return 0, newRequestError(ErrTransport, p.Order.Name, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		p.closeFile()
		return 0, newRequestError(ErrTransport, p.Order.Name, err)
	}
	defer resp.Body.Close()

	_, copyErr := io.Copy(p, resp.Body)
	closeErr := p.closeFile()
	if copyErr != nil {
		return resp.StatusCode, newRequestError(ErrTransport, p.Order.Name, copyErr)
	}
	if closeErr != nil {
		return resp.StatusCode, newRequestError(ErrTransport, p.Order.Name, closeErr)
	}
	return resp.StatusCode, nil
}

// Traffic reports the bytes read from and written to the network so far.
func (c *PostClient) Traffic() (read, written int64) {
	return c.traffic.read.Load(), c.traffic.written.Load()
}

func (c *PostClient) createRequest(ctx context.Context, body string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", formContentType)
	for key, value := range c.headers {
		if strings.EqualFold(key, "host") {
			req.Host = value
		} else {
			req.Header.Set(key, value)
		}
	}
	return req, nil
}
