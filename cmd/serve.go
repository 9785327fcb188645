package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over a JSON HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadServerConfig(serverConfigPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		app := NewServer(cfg)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			logrus.Info("Shutting down server")
			if err := app.Shutdown(); err != nil {
				logrus.Errorf("Shutdown failed: %v", err)
			}
		}()

		logrus.Infof("Listening on :%d (default quantum=%d, max processes=%d)", cfg.Port, cfg.DefaultQuantum, cfg.MaxProcesses)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logrus.Fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigPath, "config", "", "Path to server config YAML (port, default_quantum, body_limit, max_processes, max_steps)")

	rootCmd.AddCommand(serveCmd)
}
