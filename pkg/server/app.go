package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	domrepo "PredEval/internal/domain/repository"
	"PredEval/internal/handler/api"
	"PredEval/internal/report"
	"PredEval/internal/usecase"
	"PredEval/pkg/cache"
	"PredEval/pkg/config"
	xhttp "PredEval/pkg/http"
	applogger "PredEval/pkg/logger"
)

// App encapsulates the application lifecycle. It runs in one of two
// modes: one-shot (build the report, print it, exit) or serve (keep the
// evaluation available over HTTP until interrupted).
type App struct {
	cfg        *config.Config
	builder    *usecase.ReportBuilder
	source     domrepo.RecordSource
	cache      cache.Service
	httpServer *xhttp.Server
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	builder *usecase.ReportBuilder,
	source domrepo.RecordSource,
	c cache.Service,
) *App {
	l, _ := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	builder.SetLogger(l)
	if ls, ok := source.(interface{ SetLogger(*applogger.Logger) }); ok {
		ls.SetLogger(l)
	}
	return &App{cfg: cfg, builder: builder, source: source, cache: c, l: l}
}

// RunOnce builds the full report once and writes the text rendering to w.
func (a *App) RunOnce(ctx context.Context, w io.Writer) error {
	defer a.close()

	r, err := a.builder.Build(ctx, a.evalParams())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if _, err := io.WriteString(w, report.RenderText(r)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Serve starts the HTTP server and blocks until interrupted.
func (a *App) Serve() error {
	handler := api.NewReportHandler(a.l, a.builder, a.evalParams())
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRateLimit(a.cfg.Server.RateLimitRPS),
		xhttp.WithLogger(a.l),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("serving evaluation api",
		applogger.String("source", a.source.Name()),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// evalParams maps the configured evaluation settings.
func (a *App) evalParams() usecase.EvalParams {
	p := usecase.DefaultEvalParams()
	p.LongThreshold = a.cfg.Evaluation.LongThreshold
	p.ShortThreshold = a.cfg.Evaluation.ShortThreshold
	p.RegimeHigh = a.cfg.Evaluation.RegimeHigh
	p.Bins = a.cfg.Evaluation.CalibrationBins
	return p
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	a.close()
	a.l.Info("shutdown complete")
	return nil
}

// close releases the cache and the record source.
func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
	if c, ok := a.source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.l.Warn("source close error", applogger.Error(err))
		}
	}
}
