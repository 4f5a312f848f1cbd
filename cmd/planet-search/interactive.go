package main

import (
	"github.com/spf13/cobra"

	"github.com/Sternrassler/swapi-planet-search/internal/console"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Search and page through residents from the terminal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.ctrl)
		},
	}
}
