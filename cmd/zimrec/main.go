package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/Mutombe/zim-rec-sub000/internal/api"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/registry"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/store"
)

const shutdownTimeout = 10 * time.Second

func initConfig() {
	viper.SetEnvPrefix("zimrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperListenAddr, ":8080")
	viper.SetDefault(constants.ViperRegistryURL, "https://evidence.zim-rec.org.zw")
	viper.SetDefault(constants.ViperSessionFile, "zimrec-session.json")
	viper.SetDefault(constants.ViperLogLevel, "info")
}

func main() {
	ctx := context.Background()
	initConfig()

	if err := logger.Init(viper.GetString(constants.ViperLogLevel)); err != nil {
		logger.Fatal(ctx, err)
	}
	defer logger.Sync()

	sess, err := session.Open(viper.GetString(constants.ViperSessionFile))
	if err != nil {
		logger.Fatal(ctx, err)
	}

	client := registry.NewClient(viper.GetString(constants.ViperRegistryURL), sess)
	svc, err := api.NewAPIService(sess, client, store.NewStore())
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := svc.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
		}
	}()

	addr := viper.GetString(constants.ViperListenAddr)
	logger.Infof(ctx, "listening on %s", addr)
	svc.Serve(addr)
}
