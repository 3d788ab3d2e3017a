package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/quizdesk/internal/config"
	"github.com/Iron-Ham/quizdesk/internal/devserver"
	"github.com/Iron-Ham/quizdesk/internal/errors"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development quiz API",
	Long: `Run a local quiz API over the configured store.

It speaks the same JSON envelope as the school API, so the http backend
can be pointed at it:

  quizdesk serve &
  quizdesk --backend http list`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if rt.cfg.Gateway.Backend == config.BackendHTTP {
		return fmt.Errorf("serve needs a local store; use --backend sqlite or memory")
	}

	srv := &http.Server{
		Addr:              rt.cfg.Server.Addr,
		Handler:           devserver.New(rt.gateway, rt.cfg.Server.Token, rt.logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving quizzes on http://%s%s/quizzes\n", srv.Addr, devserver.BasePath)
	rt.logger.Info("dev server started", "addr", srv.Addr, "backend", rt.cfg.Gateway.Backend)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	rt.logger.Info("dev server stopping")
	return srv.Shutdown(shutdownCtx)
}
