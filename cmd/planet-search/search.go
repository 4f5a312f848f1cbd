package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/swapi-planet-search/internal/console"
	"github.com/Sternrassler/swapi-planet-search/pkg/search"
	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
)

type searchResult struct {
	Query  string         `json:"query"`
	Planet string         `json:"planet,omitempty"`
	People []swapi.Person `json:"people"`
	Next   string         `json:"next,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func newSearchCmd(a *app) *cobra.Command {
	var pages int
	var output string

	cmd := &cobra.Command{
		Use:   "search <planet name>",
		Short: "Search once and print the residents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be >= 1 (got %d)", pages)
			}
			if output != "table" && output != "json" {
				return fmt.Errorf("--output must be table or json (got %q)", output)
			}

			ctx := cmd.Context()
			name := strings.Join(args, " ")
			a.ctrl.SetQuery(name)

			err := a.ctrl.Search(ctx, name)
			for page := 1; err == nil && page < pages && a.ctrl.State().HasMore(); page++ {
				err = a.ctrl.LoadMore(ctx)
			}

			state := a.ctrl.State()
			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(searchResult{
					Query:  state.Query,
					Planet: state.Planet,
					People: state.People,
					Next:   state.Cursor,
					Error:  state.ErrorMessage(),
				}); encErr != nil {
					return encErr
				}
			} else if renderErr := console.Render(cmd.OutOrStdout(), state); renderErr != nil {
				return renderErr
			}

			var searchErr *search.Error
			if errors.As(err, &searchErr) {
				return errors.New(searchErr.Message())
			}
			return err
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of batches to load")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "table or json")
	return cmd
}
