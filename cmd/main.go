package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mastra-ai/go-mastra/internal/server"
	"github.com/mastra-ai/go-mastra/pkg/config"
	"github.com/mastra-ai/go-mastra/pkg/logger"
)

const service = "mastra"

func main() {
	dir := flag.String("dir", "", "optional directory to search for configuration")
	flag.Parse()

	dirs := make([]string, 0)
	if *dir != "" {
		dirs = append(dirs, *dir)
	}

	cfg := server.Config{}
	if err := config.NewConfig(service, strings.ToUpper(service), &cfg, dirs...); err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Log, cfg.Environment)
	if err != nil {
		panic(err)
	}
	logger.Log = log

	logger.Log.Info().Msgf("%s service is starting with config %+v", service, cfg.Str())
	s, err := server.NewServer(cfg, server.Options{}, log)
	if err != nil {
		panic(err)
	}
	go s.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	stopped := <-stop
	logger.Log.Info().Msg(fmt.Sprintf("%s signal received", stopped.String()))
	s.Shutdown(false)

	logger.Log.Info().Msgf("%s service has stopped", service)
}
