package askagent

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	root "github.com/soundprediction/go-askagent"
	"github.com/soundprediction/go-askagent/pkg/admin"
	"github.com/soundprediction/go-askagent/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local gateway for the browser widget",
	Long: `Run an HTTP gateway that exposes the ask and admin operations as JSON
endpoints for the browser widget. The gateway forwards every call to the
configured backend.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
	serveMode string
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Gateway host")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Gateway port")
	serveCmd.Flags().StringVar(&serveMode, "mode", "release", "Gateway mode (debug, release, test)")
	serveCmd.Flags().StringSlice("allow-origin", nil, "Origins allowed by CORS (repeatable)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	overrideServerWithFlags(cmd, rt)
	if err := rt.cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	queries := root.NewQueryClient(rt.transport, root.WithLogger(rt.logger))
	adminClient := admin.NewClient(rt.transport, rt.cfg.Admin.Key, admin.Config{
		KeyHeader: rt.cfg.Admin.KeyHeader,
		Logger:    rt.logger,
	})

	srv := server.New(rt.cfg, queries, adminClient, rt.logger)
	srv.Setup()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case <-cmd.Context().Done():
		rt.logger.Info("Shutting down gateway")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		rt.logger.Info("Gateway stopped successfully")
		return nil
	}
}

func overrideServerWithFlags(cmd *cobra.Command, rt *runtime) {
	if cmd.Flags().Changed("host") {
		rt.cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		rt.cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("mode") {
		rt.cfg.Server.Mode = serveMode
	}
	if cmd.Flags().Changed("allow-origin") {
		rt.cfg.Server.AllowOrigins, _ = cmd.Flags().GetStringSlice("allow-origin")
	}
}
