package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-lotse/internal/server"
	"github.com/goliatone/go-lotse/pkg/openapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}
			registry, err := server.DefaultRegistry()
			if err != nil {
				return err
			}
			o, err := a.orchestrator(registry)
			if err != nil {
				return err
			}
			bundle, _, err := a.translator()
			if err != nil {
				return err
			}

			srv, err := server.New(
				server.WithOrchestrator(o),
				server.WithTranslator(bundle),
				server.WithLocale(a.cfg.Locale),
				server.WithLogger(a.logger),
				server.WithSessionTTL(a.cfg.SessionTTL),
				server.WithSecureCookies(a.cfg.SecureCookies),
				server.WithTimeouts(a.cfg.ReadTimeout, a.cfg.WriteTimeout, a.cfg.ShutdownTimeout),
				server.WithOpenAPIInfo(openapi.Info{
					Title:     "Lotse",
					Version:   version,
					ServerURL: "http://" + a.cfg.HTTPAddr,
				}),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), a.cfg.HTTPAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LOTSE_HTTP_ADDR)")
	return cmd
}
