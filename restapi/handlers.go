package restapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/yuuki0xff/svgchart/cache"
	"github.com/yuuki0xff/svgchart/chart"
	"github.com/yuuki0xff/svgchart/chart/color"
	"github.com/yuuki0xff/svgchart/chart/render"
	"github.com/yuuki0xff/svgchart/config"
)

const (
	APIPrefix   = "/api/v1"
	cacheHeader = "X-Cache"
)

type RouterArgs struct {
	Config *config.Config
	// Cache is optional; a memory-only cache is used when nil.
	Cache *cache.Cache
	// Metrics is optional; fresh metrics are created when nil.
	Metrics *Metrics
}

// APIv1 serves the chart rendering REST API.
type APIv1 struct {
	RouterArgs
	Logger *log.Logger
}

func NewRouter(args RouterArgs) *mux.Router {
	router := mux.NewRouter()

	apiv1 := APIv1{
		RouterArgs: args,
		Logger:     log.New(os.Stdout, "[REST API] ", 0),
	}
	if apiv1.Metrics == nil {
		apiv1.Metrics = NewMetrics()
	}
	if apiv1.Cache == nil {
		// memory-only Open never fails
		apiv1.Cache, _ = cache.Open("", apiv1.Logger)
	}
	apiv1.SetHandlers(router)
	return router
}

func (api APIv1) SetHandlers(router *mux.Router) {
	v1 := router.PathPrefix(APIPrefix).Subrouter()
	v1.HandleFunc("/healthz", api.healthz).Methods(http.MethodGet)
	v1.Handle("/metrics", api.Metrics.Handler()).Methods(http.MethodGet)
	v1.HandleFunc("/kinds", api.kinds).Methods(http.MethodGet)
	v1.HandleFunc("/chart/{kind}", api.chartBody).Methods(http.MethodPut, http.MethodPost)
	v1.HandleFunc("/chart/{kind}", api.chartPayload).Methods(http.MethodGet)
	v1.HandleFunc("/chart/{kind}/example", api.example).Methods(http.MethodGet)
	v1.HandleFunc("/chart/{kind}/example/source", api.exampleSource).Methods(http.MethodGet)
}

func (api APIv1) serverError(w http.ResponseWriter, err error, msg string) {
	api.Logger.Println(errors.Wrap(err, msg).Error())
	http.Error(w, msg, http.StatusInternalServerError)
}
func (api APIv1) write(w io.Writer, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		api.Logger.Println(errors.Wrap(err, "failed to Write").Error())
	}
}
func (api APIv1) writeObj(w http.ResponseWriter, obj interface{}) {
	js, err := json.Marshal(obj)
	if err != nil {
		api.serverError(w, err, "failed to json.Marshal")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	api.write(w, js)
}

// StatusCode maps an error returned while rendering to an HTTP status.
func StatusCode(err error) int {
	switch errors.Cause(err) {
	case nil:
		return http.StatusOK
	case chart.ErrUnknownKind:
		return http.StatusNotFound
	case chart.ErrInvalidInput, chart.ErrUnknownFormat, ErrBadPayload:
		return http.StatusBadRequest
	case ErrBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case chart.ErrNoData, chart.ErrCycle:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes err as a plain text body. Only unexpected errors are
// logged.
func (api APIv1) renderError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		api.serverError(w, err, "failed to render")
		return
	}
	http.Error(w, err.Error(), status)
}

func (api APIv1) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	api.write(w, []byte("ok"))
}

func (api APIv1) kinds(w http.ResponseWriter, r *http.Request) {
	makers := render.Kinds()
	res := Kinds{
		Kinds:    make([]KindInfo, 0, len(makers)),
		Palettes: color.Names(),
	}
	for _, m := range makers {
		res.Kinds = append(res.Kinds, KindInfo{
			Name:        m.Kind(),
			Description: m.Description(),
		})
	}
	api.writeObj(w, res)
}

func (api APIv1) chartBody(w http.ResponseWriter, r *http.Request) {
	body, err := readLimited(r.Body, api.Config.MaxBodyBytes, chart.ErrInvalidInput)
	if err != nil {
		api.renderError(w, err)
		return
	}
	api.render(w, r, r.Header.Get("Content-Type"), body)
}

func (api APIv1) chartPayload(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("payload")
	if payload == "" {
		api.renderError(w, errors.Wrap(ErrBadPayload, "missing payload parameter"))
		return
	}
	body, err := DecodePayload(payload, api.Config.MaxBodyBytes)
	if err != nil {
		api.renderError(w, err)
		return
	}
	api.render(w, r, chart.ContentTypeText, body)
}

func (api APIv1) example(w http.ResponseWriter, r *http.Request) {
	m, ok := render.Lookup(mux.Vars(r)["kind"])
	if !ok {
		api.renderError(w, errors.Wrapf(chart.ErrUnknownKind, "%q", mux.Vars(r)["kind"]))
		return
	}
	api.render(w, r, chart.ContentTypeText, []byte(m.Example()))
}

func (api APIv1) exampleSource(w http.ResponseWriter, r *http.Request) {
	m, ok := render.Lookup(mux.Vars(r)["kind"])
	if !ok {
		api.renderError(w, errors.Wrapf(chart.ErrUnknownKind, "%q", mux.Vars(r)["kind"]))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	api.write(w, []byte(m.Example()))
}

// render parses body, draws the chart and writes it. Identical requests are
// answered from the cache.
func (api APIv1) render(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	start := time.Now()
	name := mux.Vars(r)["kind"]
	m, ok := render.Lookup(name)
	if !ok {
		api.renderError(w, errors.Wrapf(chart.ErrUnknownKind, "%q", name))
		return
	}
	format, err := chart.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.renderError(w, err)
		return
	}

	contentType = chart.MediaType(contentType)
	if contentType == "" {
		contentType = chart.ContentTypeText
	}
	key := cache.NewKey(m.Kind(), string(format), contentType, body)
	data, hit, err := api.Cache.Do(key, func() ([]byte, error) {
		doc, err := chart.Parse(bytes.NewReader(body), contentType)
		if err != nil {
			return nil, err
		}
		api.Config.Render.Apply(doc)

		var buf bytes.Buffer
		if err := render.Render(&buf, m.Kind(), format, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	api.Metrics.observe(m.Kind(), format, time.Since(start), hit, err)
	if err != nil {
		api.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if hit {
		w.Header().Set(cacheHeader, "HIT")
	} else {
		w.Header().Set(cacheHeader, "MISS")
	}
	api.write(w, data)
}
