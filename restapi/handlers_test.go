package restapi

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/yuuki0xff/svgchart/cache"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/config"
)

const barSource = "title=Sales\n---\nQ1|10\nQ2|20\n"

type testServer struct {
	*httptest.Server
	Metrics *Metrics
}

func newTestServer(t *testing.T, maxBody int64) testServer {
	t.Helper()
	conf := config.NewConfig("")
	if !assert.NoError(t, conf.Load()) {
		t.FailNow()
	}
	if maxBody > 0 {
		conf.MaxBodyBytes = maxBody
	}
	c, err := cache.Open("", log.New(ioutil.Discard, "", 0))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	metrics := NewMetrics()
	srv := httptest.NewServer(NewRouter(RouterArgs{Config: conf, Cache: c, Metrics: metrics}))
	t.Cleanup(srv.Close)
	return testServer{Server: srv, Metrics: metrics}
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer res.Body.Close() // nolint: errcheck
	data, err := ioutil.ReadAll(res.Body)
	assert.NoError(t, err)
	return res, string(data)
}

// rootAttrs returns the attributes of the first element of an svg body.
func rootAttrs(t *testing.T, body string) map[string]string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(body))
	for {
		tok, err := dec.Token()
		if !assert.NoError(t, err) {
			return nil
		}
		if se, ok := tok.(xml.StartElement); ok {
			attrs := map[string]string{}
			for _, attr := range se.Attr {
				attrs[attr.Name.Local] = attr.Value
			}
			return attrs
		}
	}
}

func TestKinds(t *testing.T) {
	a := assert.New(t)
	srv := newTestServer(t, 0)
	res, body := do(t, http.MethodGet, srv.URL+APIPrefix+"/kinds", "", "")
	a.Equal(http.StatusOK, res.StatusCode)
	a.Equal("application/json", res.Header.Get("Content-Type"))

	var kinds Kinds
	a.NoError(json.Unmarshal([]byte(body), &kinds))
	var names []string
	for _, k := range kinds.Kinds {
		names = append(names, k.Name)
		a.NotEmpty(k.Description)
	}
	a.Contains(names, "bar")
	a.Contains(names, "timeseries")
	a.Equal(color.Names(), kinds.Palettes)
}

func TestHealthAndMetrics(t *testing.T) {
	a := assert.New(t)
	srv := newTestServer(t, 0)
	res, body := do(t, http.MethodGet, srv.URL+APIPrefix+"/healthz", "", "")
	a.Equal(http.StatusOK, res.StatusCode)
	a.Equal("ok", body)

	do(t, http.MethodPut, srv.URL+APIPrefix+"/chart/bar", "", barSource)
	res, body = do(t, http.MethodGet, srv.URL+APIPrefix+"/metrics", "", "")
	a.Equal(http.StatusOK, res.StatusCode)
	a.Contains(body, `svgchart_renders_total{format="svg",kind="bar",result="ok"} 1`)
	a.Contains(body, "svgchart_render_duration_seconds_bucket")
	a.Contains(body, "svgchart_cache_hits_total 0")
}

func TestChartRender(t *testing.T) {
	srv := newTestServer(t, 0)
	url := srv.URL + APIPrefix + "/chart/"

	t.Run("put-text", func(t *testing.T) {
		a := assert.New(t)
		res, body := do(t, http.MethodPut, url+"bar", "text/plain; charset=utf-8", barSource)
		a.Equal(http.StatusOK, res.StatusCode)
		a.Equal("image/svg+xml", res.Header.Get("Content-Type"))
		a.Contains(body, "<svg")
		a.Contains(body, "Sales")
	})
	t.Run("post-json", func(t *testing.T) {
		a := assert.New(t)
		res, body := do(t, http.MethodPost, url+"pie", "application/json",
			`{"config":{"title":"Share"},"data":[{"label":"a","value":1},{"label":"b","value":3}]}`)
		a.Equal(http.StatusOK, res.StatusCode)
		a.Contains(body, "Share")
	})
	t.Run("html", func(t *testing.T) {
		a := assert.New(t)
		res, body := do(t, http.MethodPut, url+"line?format=html", "", barSource)
		a.Equal(http.StatusOK, res.StatusCode)
		a.Equal("text/html; charset=utf-8", res.Header.Get("Content-Type"))
		a.True(strings.HasPrefix(body, "<!DOCTYPE html>"))
	})
	t.Run("png", func(t *testing.T) {
		a := assert.New(t)
		res, body := do(t, http.MethodPut, url+"bar?format=png", "", barSource)
		a.Equal(http.StatusOK, res.StatusCode)
		a.Equal("image/png", res.Header.Get("Content-Type"))
		a.True(strings.HasPrefix(body, "\x89PNG"))
	})
	t.Run("render-defaults", func(t *testing.T) {
		a := assert.New(t)
		_, body := do(t, http.MethodPut, url+"bar", "", "a|1\n")
		a.Contains(body, `width="800"`)
		_, body = do(t, http.MethodPut, url+"bar", "", "width=300\n---\na|1\n")
		a.Contains(body, `width="300"`)
	})
	t.Run("fit-content", func(t *testing.T) {
		var tree, chain strings.Builder
		tree.WriteString("ceo\n")
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&tree, "staff%d|ceo\n", i)
			fmt.Fprintf(&chain, "n%d|n%d\n", i, i+1)
		}
		for kind, src := range map[string]string{
			"tree":      tree.String(),
			"connector": "direction=tb\n---\n" + chain.String(),
		} {
			a := assert.New(t)
			res, body := do(t, http.MethodPut, url+kind, "", src)
			if !a.Equal(http.StatusOK, res.StatusCode, kind) {
				continue
			}
			attrs := rootAttrs(t, body)
			a.Equal(fmt.Sprintf("0 0 %s %s", attrs["width"], attrs["height"]), attrs["viewBox"], kind)
			w, _ := strconv.Atoi(attrs["width"])
			h, _ := strconv.Atoi(attrs["height"])
			a.True(w > 800 || h > 480, kind)
		}
	})
}

func TestChartCache(t *testing.T) {
	a := assert.New(t)
	srv := newTestServer(t, 0)
	url := srv.URL + APIPrefix + "/chart/bar"

	res, first := do(t, http.MethodPut, url, "", barSource)
	a.Equal("MISS", res.Header.Get(cacheHeader))
	res, second := do(t, http.MethodPut, url, "text/plain", barSource)
	a.Equal("HIT", res.Header.Get(cacheHeader))
	a.Equal(first, second)
	res, _ = do(t, http.MethodPut, url+"?format=html", "", barSource)
	a.Equal("MISS", res.Header.Get(cacheHeader))

	a.Equal(1.0, testutil.ToFloat64(srv.Metrics.CacheHits))
	a.Equal(2.0, testutil.ToFloat64(srv.Metrics.Renders.WithLabelValues("bar", "svg", "ok")))
	a.Equal(1.0, testutil.ToFloat64(srv.Metrics.Renders.WithLabelValues("bar", "html", "ok")))
}

func TestChartPayload(t *testing.T) {
	srv := newTestServer(t, 0)
	url := srv.URL + APIPrefix + "/chart/bar"

	t.Run("round-trip", func(t *testing.T) {
		a := assert.New(t)
		_, direct := do(t, http.MethodPut, url, "", barSource)
		payload, err := EncodePayload([]byte(barSource))
		a.NoError(err)
		res, body := do(t, http.MethodGet, url+"?payload="+payload, "", "")
		a.Equal(http.StatusOK, res.StatusCode)
		a.Equal(direct, body)
	})
	t.Run("padding", func(t *testing.T) {
		a := assert.New(t)
		payload, _ := EncodePayload([]byte("a|1\n"))
		for len(payload)%4 != 0 {
			payload += "="
		}
		res, _ := do(t, http.MethodGet, url+"?payload="+payload, "", "")
		a.Equal(http.StatusOK, res.StatusCode)
	})
	t.Run("missing", func(t *testing.T) {
		a := assert.New(t)
		res, _ := do(t, http.MethodGet, url, "", "")
		a.Equal(http.StatusBadRequest, res.StatusCode)
	})
	t.Run("garbage", func(t *testing.T) {
		a := assert.New(t)
		res, _ := do(t, http.MethodGet, url+"?payload=not*base64", "", "")
		a.Equal(http.StatusBadRequest, res.StatusCode)
		res, _ = do(t, http.MethodGet, url+"?payload=aGVsbG8", "", "")
		a.Equal(http.StatusBadRequest, res.StatusCode)
	})
}

func TestChartErrors(t *testing.T) {
	srv := newTestServer(t, 64)
	url := srv.URL + APIPrefix + "/chart/"

	cases := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		status      int
	}{
		{"unknown-kind", http.MethodPut, "radar", "", "a|1", http.StatusNotFound},
		{"unknown-format", http.MethodPut, "bar?format=gif", "", "a|1", http.StatusBadRequest},
		{"bad-json", http.MethodPut, "bar", "application/json", "{", http.StatusBadRequest},
		{"bad-workbook", http.MethodPut, "bar", chart.ContentTypeWorkbook, "not a zip", http.StatusBadRequest},
		{"no-data", http.MethodPut, "bar", "", "title=x\n---\n", http.StatusUnprocessableEntity},
		{"cycle", http.MethodPut, "tree", "", "a|b\nb|a\n", http.StatusUnprocessableEntity},
		{"too-large", http.MethodPut, "bar", "", strings.Repeat("a|1\n", 20), http.StatusRequestEntityTooLarge},
		{"example-unknown", http.MethodGet, "radar/example", "", "", http.StatusNotFound},
		{"source-unknown", http.MethodGet, "radar/example/source", "", "", http.StatusNotFound},
		{"method", http.MethodDelete, "bar", "", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			res, body := do(t, tc.method, url+tc.path, tc.contentType, tc.body)
			a.Equal(tc.status, res.StatusCode, body)
			if tc.status != http.StatusMethodNotAllowed {
				a.True(strings.HasPrefix(res.Header.Get("Content-Type"), "text/plain"))
			}
		})
	}
}

func TestExample(t *testing.T) {
	a := assert.New(t)
	srv := newTestServer(t, 0)
	url := srv.URL + APIPrefix + "/chart/connector/example"

	res, body := do(t, http.MethodGet, url, "", "")
	a.Equal(http.StatusOK, res.StatusCode)
	a.Equal("image/svg+xml", res.Header.Get("Content-Type"))
	a.Contains(body, "<svg")

	res, body = do(t, http.MethodGet, url+"/source", "", "")
	a.Equal(http.StatusOK, res.StatusCode)
	a.Equal("text/plain; charset=utf-8", res.Header.Get("Content-Type"))
	a.Contains(body, "Commit|Build")
}

func TestStatusCode(t *testing.T) {
	a := assert.New(t)
	a.Equal(http.StatusOK, StatusCode(nil))
	a.Equal(http.StatusUnprocessableEntity, StatusCode(chart.ErrNoData))
	a.Equal(http.StatusInternalServerError, StatusCode(io.ErrUnexpectedEOF))
}
