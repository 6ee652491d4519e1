package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"web3_tools/internal/config"
	"web3_tools/internal/logger"
	"web3_tools/internal/observability"
	"web3_tools/internal/routes"
	"web3_tools/internal/service/market"
	"web3_tools/internal/service/news"
	"web3_tools/internal/service/wallet"
	"web3_tools/internal/upstream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("config", "configs/app_conf.yml", "Configs file path")
	envFile  = flag.String("env", ".env", "Optional dotenv file")
	appHash  = os.Getenv("GIT_HASH")
)

func main() {
	flag.Parse()
	appLog, err := logger.NewAppLogger(appHash)
	if err != nil {
		log.Fatalf("unable to create logger: %s", err)
	}
	if err = godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		appLog.Warn("unable to load env file", zap.String("env", *envFile), zap.Error(err))
	}
	appLog.Info("app starting", zap.String("conf", *confFile))
	appConf, err := config.InitConf(*confFile)
	if err != nil {
		appLog.Fatal("unable to init config", err, zap.String("config", *confFile))
	}

	appLog.Info("init services", zap.String("price_provider", appConf.PriceProvider))
	metrics := observability.NewMetrics()
	client := upstream.NewClient(appLog, appConf.RequestTimeout, upstream.WithMetrics(metrics))
	marketService := market.InitService(appLog, client, appConf.PriceProvider, appConf.Upstreams)
	newsService := news.InitService(appLog, client, appConf.News)
	walletService := wallet.InitService(appLog, client, appConf.Etherscan)

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", appConf.MetricsPort),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLog.Info("Starting metrics server", zap.String("port", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("metrics server stopped", err)
		}
	}()

	appLog.Info("init http service")
	appHTTPServer := routes.InitAppRouter(appLog, marketService, newsService, walletService, metrics, fmt.Sprintf(":%d", appConf.AppPort))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = metricsServer.Shutdown(ctx); err != nil {
			appLog.Error("unable to stop metrics service", err)
		}
		if err = appHTTPServer.Stop(); err != nil {
			appLog.Fatal("unable to stop http service", err)
		}
	}()
	go func() {
		if err := appHTTPServer.Run(); err != nil {
			appLog.Fatal("unable to start http service", err)
		}
	}()

	// register app shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c // This blocks the main thread until an interrupt is received
}
