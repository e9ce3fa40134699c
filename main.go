package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"giftlink/backend/app"
	"giftlink/backend/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		panic(err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(viper.GetInt("host.port")),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		var err error
		if viper.GetBool("host.ssl.enabled") {
			err = srv.ListenAndServeTLS(viper.GetString("host.ssl.certificate_path"), viper.GetString("host.ssl.certificate_key_path"))
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down server", zap.Error(err))
	}

	if err := a.Close(shutdownCtx); err != nil {
		zap.L().Error("Failed to close connections", zap.Error(err))
	}

	zap.L().Sync()
}
