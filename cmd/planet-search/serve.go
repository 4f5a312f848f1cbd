package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/swapi-planet-search/internal/web"
	"github.com/Sternrassler/swapi-planet-search/pkg/logging"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			newController := func() web.Controller { return a.newController() }
			srv := web.New(a.cfg.ListenAddr, newController, logging.NewLogger("web"))

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		},
	}

	cmd.Flags().String("listen", ":8080", "listen address")
	if err := a.v.BindPFlag("listen_addr", cmd.Flags().Lookup("listen")); err != nil {
		panic(err)
	}
	return cmd
}
