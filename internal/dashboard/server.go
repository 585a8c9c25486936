package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mtl-news/maritime-desk/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Options are the presentation settings of the dashboard.
type Options struct {
	Addr             string
	StylesheetURL    string
	DefaultKeyword   string
	NewsLimit        int
	PlaceholderImage string
}

// Server is the dashboard HTTP surface.
type Server struct {
	echo  *echo.Echo
	news  NewsSearcher
	feeds FeedSource
	opts  Options
	log   logger.Logger
}

// New builds the echo server and registers every route.
func New(newsSearcher NewsSearcher, feeds FeedSource, opts Options, log logger.Logger) (*Server, error) {
	if newsSearcher == nil || feeds == nil {
		return nil, errors.New("dashboard requires a news searcher and a feed source")
	}
	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		echo:  echo.New(),
		news:  newsSearcher,
		feeds: feeds,
		opts:  opts,
		log:   logger.Ensure(log),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]any{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				s.log.ErrorObj("request failed", "http_request", fields)
				return nil
			}
			s.log.InfoObj("request completed", "http_request", fields)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/", s.handleIndex)
	e.GET("/news", s.handleNews)
	e.GET("/rates", s.handleRates)
	e.GET("/charts/:name", s.handleChart)

	api := e.Group("/api")
	api.GET("/news", s.handleAPINews)
	api.GET("/rates", s.handleAPIRates)
	api.GET("/charts/:name", s.handleAPIChart)

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("dashboard listening", "http_addr", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("dashboard server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.InfoObj("dashboard shutting down", "reason", ctx.Err())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	return nil
}
