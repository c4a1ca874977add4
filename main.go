// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nextoken/modules/appconfig"
	"nextoken/modules/clock"
	"nextoken/modules/cryptoengine"
	"nextoken/modules/db/redis"
	"nextoken/modules/middleware"
	"nextoken/modules/server"
	"nextoken/modules/services"
	"nextoken/modules/telemetry"

	"nextoken/core/token/adapters/persistence"
	token_http "nextoken/core/token/adapters/rest"
	"nextoken/core/token/domain"
)

const version = "1.0.0"

// OpenAPI spec for request validation at runtime
//
//go:embed api/openapi.yaml
var validationSpecFS embed.FS

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// cancel the context when these signals occur
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// manual dependency injections, imo there's no need to over-engineer with DI frameworks like Fx or Wire
	slog.SetLogLoggerLevel(slog.LevelDebug)

	clk := clock.RealClock{}

	// --- application config ----
	appConfig, err := appconfig.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// --- infrastructure ---

	otelShutdown, err := telemetry.Init(ctx, appConfig.Otel)
	if err != nil {
		slog.ErrorContext(ctx, "telemetry not properly configured", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "telemetry shutdown error", slog.Any("error", err))
		}
	}()

	redisClient, err := redis.NewRueidisClient(ctx, appConfig.Redis)
	if err != nil {
		slog.ErrorContext(ctx, "redis not properly setup", slog.Any("error", err))
		exitCode = 1
		return
	}
	defer redisClient.Close()

	kv := redis.NewRedisKV(redisClient, redis.WithKeyPrefix("nextoken"))
	store := persistence.NewRevocationStore(kv, appConfig.Token.RevokedRetention)

	// Keys are generated per process; tokens do not survive a restart.
	engine, err := cryptoengine.New()
	if err != nil {
		slog.ErrorContext(ctx, "crypto engine setup error", slog.Any("error", err))
		exitCode = 1
		return
	}

	// --- application layer ---

	app := domain.NewApp(engine, engine, store, clk, domain.Limits{
		DefaultExpiry: appConfig.Token.DefaultExpiry,
		MaxExpiry:     appConfig.Token.MaxExpiry,
	})

	tokenMetrics, err := telemetry.NewTokenMetrics("nextoken-api")
	if err != nil {
		slog.WarnContext(ctx, "failed to initialize token metrics, continuing without metrics", slog.Any("error", err))
		tokenMetrics = nil
	}

	tokenApi := token_http.NewTokenAPI(app, store, tokenMetrics, version)

	tokenSvc, err := services.NewTokenAPIService(tokenApi, validationSpecFS, "api/openapi.yaml")
	if err != nil {
		slog.ErrorContext(ctx, "token service setup error", slog.Any("error", err))
		exitCode = 1
		return
	}

	httpMetrics, err := telemetry.NewHTTPMetrics("nextoken-api")
	if err != nil {
		slog.WarnContext(ctx, "failed to initialize HTTP metrics, continuing without metrics", slog.Any("error", err))
		httpMetrics = nil
	}

	srv, err := server.New(
		appConfig.Host, appConfig.Port,
		server.WithReadTimeout(10*time.Second),
		server.WithWriteTimeout(10*time.Second),
		server.WithServices(tokenSvc),
		server.WithGlobalMiddlewares(
			middleware.Telemetry(httpMetrics),
			middleware.Recovery(),
		),
	)
	if err != nil {
		slog.ErrorContext(ctx, "init server error", slog.Any("error", err))
		exitCode = 1
		return
	}

	if err := srv.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "running server error", slog.Any("error", err))
		exitCode = 1
		return
	}
}
