package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pageforge/printer"
	"pageforge/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve documents, thumbnails and PDFs for preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		var browser server.Printer
		p, err := printer.New(printer.Options{
			Headless: cfg.Printer.Headless,
			Timeout:  cfg.Printer.Timeout,
			ExecPath: cfg.Printer.ExecPath,
			Flags:    cfg.Printer.Flags,
		}, logger)
		if err != nil {
			logger.Warn("PDF printing and page images disabled", zap.Error(err))
		} else {
			defer p.Close()
			browser = p
		}

		srv := server.New(lib, browser, logger, server.Config{Addr: addr, Scale: cfg.Server.Scale})
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	RootCmd.AddCommand(serveCmd)
}
