package restapi

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/levigross/grequests"
	"github.com/pkg/errors"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/info"
)

const (
	UserAgent = info.DefaultUserAgent
)

// Client calls the svgchart REST API.
type Client struct {
	BaseUrl string
	s       *grequests.Session
}

type ClientWithCtx struct {
	Client
	ctx context.Context
}

// Init initializes the client.
func (c *Client) Init() error {
	c.BaseUrl = strings.TrimRight(c.BaseUrl, "/")
	if c.BaseUrl == "" {
		return errors.New("base url is empty")
	}
	c.s = grequests.NewSession(nil)
	return nil
}

// url construct an absolute URL from a relative URL.
func (c Client) url(relativeUrls ...string) string {
	return c.BaseUrl + APIPrefix + strings.Join(relativeUrls, "/")
}

// WithCtx returns a new ClientWithCtx object with specified context.
//
// this method MUST use value receiver.
func (c Client) WithCtx(ctx context.Context) ClientWithCtx {
	return ClientWithCtx{
		Client: c,
		ctx:    ctx,
	}
}

// ro returns an initialized RequestOptions struct.
func (c ClientWithCtx) ro() grequests.RequestOptions {
	return grequests.RequestOptions{
		UserAgent: UserAgent,
		Context:   c.ctx,
	}
}

// Kinds returns the chart kinds and palettes the server knows.
func (c ClientWithCtx) Kinds() (Kinds, error) {
	var res Kinds
	ro := c.ro()
	r, err := c.get(c.url("/kinds"), &ro)
	if err != nil {
		return res, err
	}
	defer r.Close() // nolint: errcheck
	if err := r.JSON(&res); err != nil {
		return res, errors.Wrap(err, "GET /kinds returned invalid JSON")
	}
	return res, nil
}

// Render uploads body and returns the rendered chart.
func (c ClientWithCtx) Render(kind string, format chart.Format, contentType string, body []byte) ([]byte, error) {
	ro := c.ro()
	ro.Params = map[string]string{"format": string(format)}
	ro.Headers = map[string]string{"Content-Type": contentType}
	ro.RequestBody = bytes.NewReader(body)

	u := c.url("/chart", url.PathEscape(kind))
	r, err := c.s.Put(u, &ro)
	r, err = wrapResp(http.MethodPut, u, r, err)
	if err != nil {
		return nil, err
	}
	if r.StatusCode != http.StatusOK {
		return nil, errUnexpStatus(http.MethodPut, u, r)
	}
	defer r.Close() // nolint: errcheck
	return r.Bytes(), nil
}

// ExampleSource returns the built-in example of kind.
func (c ClientWithCtx) ExampleSource(kind string) ([]byte, error) {
	ro := c.ro()
	r, err := c.get(c.url("/chart", url.PathEscape(kind), "example", "source"), &ro)
	if err != nil {
		return nil, err
	}
	defer r.Close() // nolint: errcheck
	return r.Bytes(), nil
}

// ChartURL returns a GET URL that renders src, suitable for embedding.
func (c Client) ChartURL(kind string, format chart.Format, src []byte) (string, error) {
	payload, err := EncodePayload(src)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("payload", payload)
	if format != "" && format != chart.FormatSVG {
		q.Set("format", string(format))
	}
	return c.url("/chart", url.PathEscape(kind)) + "?" + q.Encode(), nil
}

func (c Client) get(url string, ro *grequests.RequestOptions) (*grequests.Response, error) {
	r, err := c.s.Get(url, ro)
	r, err = wrapResp(http.MethodGet, url, r, err)
	if err != nil {
		return nil, err
	}
	switch r.StatusCode {
	case http.StatusOK:
		return r, nil
	default:
		return nil, errUnexpStatus(http.MethodGet, url, r)
	}
}
