package main

import (
	"flag"
	"log"

	"github.com/BatikanHyt/ordertrack/pkg/sink"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	s := &sink.Sink{Logger: logger}
	logger.Info("order sink listening", zap.String("addr", *addr))
	if err := fasthttp.ListenAndServe(*addr, s.Handler); err != nil {
		logger.Fatal("sink stopped", zap.Error(err))
	}
}
