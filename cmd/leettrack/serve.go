package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: withApp("serve", func(cmd *cobra.Command, args []string, a *app.App) error {
		cfg := a.Config().Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		if issue, _ := cmd.Flags().GetBool("issue-token"); issue {
			ttl, _ := cmd.Flags().GetDuration("token-ttl")
			if cfg.JWTSecret == "" {
				return fmt.Errorf("server.jwt_secret (or LEETTRACK_JWT_SECRET) must be set")
			}
			token, err := server.IssueToken([]byte(cfg.JWTSecret), a.Identity(), a.Clock().Now(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		}

		gin.SetMode(gin.ReleaseMode)
		srv, err := server.New(a)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.Addr)
		return srv.Run(ctx, cfg.Addr)
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	serveCmd.Flags().Bool("issue-token", false, "Print a bearer token for the configured identity and exit")
	serveCmd.Flags().Duration("token-ttl", 24*time.Hour, "Lifetime of the token printed by --issue-token")
}

