package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fastclicker/TableBundle/pkg/metrics"
	"github.com/fastclicker/TableBundle/pkg/render/html"
	"github.com/fastclicker/TableBundle/pkg/server/handler"
	"github.com/fastclicker/TableBundle/pkg/server/router"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrRegistryRequired = errors.New("table registry is required")
	ErrSourcesRequired  = errors.New("data sources are required")
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Registry *table.Registry
	Sources  table.SourceResolver
	// Renderer renders tables not choosing their own renderer, HTML by default.
	Renderer table.Renderer
	// Metrics receives the build collectors and is served on /metrics, the default registry when nil.
	Metrics *prometheus.Registry
	// Next serves requests matching no route.
	Next http.Handler
}

func setDefaults(server *Server) error {
	if server.Registry == nil {
		return ErrRegistryRequired
	}
	if server.Sources == nil {
		return ErrSourcesRequired
	}
	if server.Renderer == nil {
		server.Renderer = html.New()
	}
	if server.Next == nil {
		server.Next = http.NotFoundHandler()
	}
	return nil
}

// Handler returns the HTTP handler of the server.
func (c *Server) Handler() (http.Handler, error) {
	if err := setDefaults(c); err != nil {
		return nil, err
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if c.Metrics != nil {
		registerer, gatherer = c.Metrics, c.Metrics
	}
	if err := metrics.Register(registerer); err != nil {
		return nil, err
	}

	assembler := table.NewAssembler(c.Sources, c.Renderer)
	return router.Routes(router.Handlers{
		Table:    handler.NewTableHandler(c.Registry, assembler),
		Metrics:  promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		Health:   handler.Health(),
		NotFound: c.Next,
	}), nil
}

// ListenAndServe serves HTTP on httpPort until ctx is done.
func (c *Server) ListenAndServe(ctx context.Context, httpPort int) error {
	h, err := c.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logrus.Infof("listening on %s, serving tables %v", srv.Addr, c.Registry.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
