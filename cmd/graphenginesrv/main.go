// Command graphenginesrv runs the graph analytics engine's HTTP
// surface: binary and JSON endpoints backed by an in-process
// GraphRegistry and JobRegistry (spec.md §6).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/api"
	"github.com/katalvlaran/graphengine/config"
	"github.com/katalvlaran/graphengine/ingest"
	"github.com/katalvlaran/graphengine/registry"
)

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("parsing configuration")
	}

	bearerToken, err := cfg.JWTSigningSecret()
	if err != nil {
		log.WithError(err).Fatal("loading jwt signing secret")
	}

	metrics := config.NewMetrics()
	graphs := registry.NewGraphRegistry(metrics.GraphsLive)
	jobs := registry.NewJobRegistry(metrics.JobsLive)

	var endpoint string
	if len(cfg.ArangoDBEndpoints) > 0 {
		endpoint = cfg.ArangoDBEndpoints[0]
	}
	docClient := ingest.NewDocumentClient(endpoint, bearerToken, log.WithField("component", "ingest"))

	server := api.NewServer(graphs, jobs, docClient, bearerToken, log.WithField("component", "api"))

	addr := cfg.BindAddress + ":" + itoaPort(cfg.BindPort)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// sealEdges may trigger neighbour-index construction; give it a
		// multi-minute budget rather than the conservative header timeout
		// (spec.md §5).
		WriteTimeout: 5 * time.Minute,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	server.SetShutdownFunc(func() { stop <- syscall.SIGTERM })

	go func() {
		log.WithField("addr", addr).Info("graphenginesrv listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
	log.Info("graphenginesrv stopped")
}

func itoaPort(port int) string {
	if port == 0 {
		return "0"
	}
	var digits [6]byte
	n := len(digits)
	for port > 0 {
		n--
		digits[n] = byte('0' + port%10)
		port /= 10
	}
	return string(digits[n:])
}
