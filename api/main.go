package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/config"
	"github.com/rogerio-castellano/financial-planner-server/internal/events"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/handlers"
	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/router"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/service"
)

const shutdownTimeout = 30 * time.Second

// @title Financial Planner API
// @version 1.0
// @description Gateway between the financial planner front end and the Plaid aggregation API.
// @host localhost:8000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printToken := flag.String("print-token", "", "print a development JWT for this user id and exit")
	flag.Parse()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
		Format:    cfg.LogFormat,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	if *printToken != "" {
		if cfg.JWTSecret == "" {
			logger.Error("JWT_SECRET is required to sign a token")
			os.Exit(1)
		}
		token, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience).GenerateToken(*printToken, 24*time.Hour)
		if err != nil {
			logger.Error("Failed to sign token", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentials, closeStore, err := openCredentialStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := plaid.NewClient(cfg.PlaidClientID, cfg.PlaidSecret, plaid.Environment(cfg.PlaidEnv))
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return err
		}
		logger.Info("Publishing events", "exchange", cfg.AMQPExchange)
	}
	defer publisher.Close()

	agg := cashflow.New(client, credentials, cashflow.Config{
		PageSize:    cfg.CashFlowPageSize,
		MaxPages:    cfg.CashFlowMaxPages,
		PageTimeout: cfg.CashFlowPageTimeout,
		CallTimeout: cfg.CashFlowCallTimeout,
		MaxRetries:  cfg.CashFlowMaxRetries,
	}, logger)

	planner := service.NewPlanner(client, credentials, agg, publisher, service.LinkConfig{
		ClientName:   cfg.PlaidClientName,
		Products:     cfg.PlaidProducts,
		CountryCodes: cfg.PlaidCountryCodes,
		Language:     cfg.PlaidLanguage,
	}, logger)

	visitors := rl.NewVisitors(cfg.RateLimitRPS, cfg.RateLimitBurst)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(router.Dependencies{
			Server:     handlers.NewServer(planner, logger),
			Verifier:   auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
			Visitors:   visitors,
			Logger:     logger,
			CORSOrigin: cfg.CORSURL,
		}),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.CashFlowCallTimeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server running",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			log.FieldBackend, cfg.CredentialBackend,
			"plaid_env", cfg.PlaidEnv,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		visitors.StartCleanupLoop(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
