package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/ai-intake/internal/api/router"
	"github.com/wolfman30/ai-intake/internal/call"
	appconfig "github.com/wolfman30/ai-intake/internal/config"
	"github.com/wolfman30/ai-intake/internal/dispatch"
	"github.com/wolfman30/ai-intake/internal/observability/metrics"
	"github.com/wolfman30/ai-intake/internal/web"
	"github.com/wolfman30/ai-intake/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting ai-intake call dispatch service",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	dispatcher, provider, reason := dispatch.BuildDispatcher(dispatch.ProviderSelectionConfig{
		Preference:          cfg.CallProvider,
		FromNumber:          cfg.FromNumber,
		TelnyxAPIKey:        cfg.TelnyxAPIKey,
		TelnyxTexmlAppID:    cfg.TelnyxTexmlAppID,
		TelnyxAIAssistantID: cfg.TelnyxAIAssistantID,
		TwilioAccountSID:    cfg.TwilioAccountSID,
		TwilioAuthToken:     cfg.TwilioAuthToken,
		TwilioScriptURL:     cfg.TwilioScriptURL,
	}, logger)
	if dispatcher == nil {
		logger.Error("no call provider available", "reason", reason)
		os.Exit(1)
	}
	logger.Info("call provider selected", "provider", provider)

	callMetrics := metrics.NewCallMetrics(nil)
	callHandler := call.NewHandler(dispatcher, cfg.DispatchTimeout, callMetrics, logger)

	webHandler, err := web.NewHandler(logger)
	if err != nil {
		logger.Error("failed to load intake form assets", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		CallHandler:        callHandler,
		WebHandler:         webHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Write timeout must exceed the provider dispatch timeout so the
		// outcome can still reach the browser.
		WriteTimeout: cfg.DispatchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
