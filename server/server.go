// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

type Config struct {
	BaseURL         string
	HTTP            HTTPConfig
	AllowedOrigins  []string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

// Server routes every exchange endpoint behind host filtering, CORS and
// gzip, then through the configured wrappers.
type Server struct {
	log     logging.Logger
	baseURL string

	shutdownTimeout time.Duration

	router   *router
	srv      *http.Server
	listener net.Listener
}

func New(log logging.Logger, listener net.Listener, config Config, wrappers ...Wrapper) *Server {
	r := newRouter()
	var handler http.Handler = gziphandler.GzipHandler(
		cors.New(cors.Options{
			AllowedOrigins:   config.AllowedOrigins,
			AllowCredentials: true,
		}).Handler(filterInvalidHosts(r, config.AllowedHosts)),
	)
	for _, w := range wrappers {
		handler = w.WrapHandler(handler)
	}

	log.Info("http server created",
		zap.Stringer("address", listener.Addr()),
		zap.Strings("allowedOrigins", config.AllowedOrigins),
		zap.Strings("allowedHosts", config.AllowedHosts),
	)
	return &Server{
		log:             log,
		baseURL:         config.BaseURL,
		shutdownTimeout: config.ShutdownTimeout,
		router:          r,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       config.HTTP.ReadTimeout,
			ReadHeaderTimeout: config.HTTP.ReadHeaderTimeout,
			WriteTimeout:      config.HTTP.WriteTimeout,
			IdleTimeout:       config.HTTP.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// AddRoute serves [handler] at baseURL+[base]+[endpoint].
func (s *Server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := s.baseURL + base
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

// Dispatch serves until [ctx] is done and then shuts down. A clean
// shutdown returns nil.
func (s *Server) Dispatch(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.srv.Serve(s.listener)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down http server")
	if err := s.Shutdown(); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	// close anything Shutdown gave up on
	_ = s.srv.Close()
	return err
}
