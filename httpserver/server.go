package httpserver

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type HttpServer struct {
	Logger *log.Logger

	server *http.Server
	ctx    context.Context
	cancel context.CancelFunc
	sig    chan os.Signal
	errch  chan error
}

// NewHttpServer returns a server for handler. Once started, requests are
// logged to Logger and panics in handler are turned into 500 responses.
func NewHttpServer(addr string, handler http.Handler) *HttpServer {
	ctx, cancel := context.WithCancel(context.Background())

	return &HttpServer{
		Logger: log.New(os.Stderr, "[server] ", log.LstdFlags),
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		ctx:    ctx,
		cancel: cancel,
		sig:    make(chan os.Signal, 1),
		errch:  make(chan error, 1),
	}
}

// Start listens and serves in the background.
// After Start returns, Addr reports the address actually listened on.
func (srv *HttpServer) Start() error {
	addr := srv.server.Addr
	if addr == "" {
		// find available port, and listen
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv.server.Addr = listener.Addr().String()

	// start a signal handler
	signal.Notify(srv.sig, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	go func() {
		select {
		case s := <-srv.sig:
			srv.Logger.Printf("received %s, shutting down", s)
		case <-srv.ctx.Done():
		}
		signal.Stop(srv.sig)
		srv.Stop()
	}()

	srv.server.Handler = recoverPanic(logRequests(srv.server.Handler, srv.Logger), srv.Logger)
	srv.Logger.Printf("listening on %s", srv.Url())
	go func() {
		defer srv.Stop()
		defer listener.Close() // nolint: errcheck
		srv.errch <- srv.server.Serve(listener)
	}()
	return nil
}

// Wait blocks until the server stopped.
func (srv *HttpServer) Wait() error {
	err := <-srv.errch
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully.
func (srv *HttpServer) Stop() {
	srv.server.Shutdown(srv.ctx) // nolint: errcheck
	srv.cancel()
}

func (srv *HttpServer) Addr() string {
	return srv.server.Addr
}

func (srv *HttpServer) Url() string {
	return "http://" + srv.Addr()
}
