package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/timelog/internal/logger"
	"github.com/existflow/timelog/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  `Serve the timer, records, settings and catalog API over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	srv := server.New(a.store, a.engine, a.catalog)

	logger.Info("Server starting", logger.F("addr", addr))
	fmt.Printf("Timelog server listening on %s\n", addr)
	return srv.Start(addr)
}
