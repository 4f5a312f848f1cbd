// Package console renders the planet search widget on a terminal: a line
// of input is a search, "more" loads the next batch and "clear" drops the
// results.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/Sternrassler/swapi-planet-search/pkg/search"
)

// Controller is the subset of *search.Controller the console drives.
type Controller interface {
	State() search.State
	SetQuery(q string)
	Search(ctx context.Context, name string) error
	LoadMore(ctx context.Context) error
	Reset() error
}

const prompt = "planet> "

// Run reads commands from in until EOF, "quit" or ctx is done, rendering
// the state to out after each one.
func Run(ctx context.Context, in io.Reader, out io.Writer, ctrl Controller) error {
	fmt.Fprintln(out, "Star Wars Planet Search")
	fmt.Fprintln(out, `Type a planet name to search, "more" to load more residents, "clear" to start over, "quit" to exit.`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		var err error
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "more", "m":
			if !ctrl.State().HasMore() {
				fmt.Fprintln(out, "No more residents to load.")
				continue
			}
			err = ctrl.LoadMore(ctx)
		case "clear", "c":
			if err = ctrl.Reset(); err == nil {
				fmt.Fprintln(out, "Cleared.")
				continue
			}
		default:
			ctrl.SetQuery(line)
			err = ctrl.Search(ctx, line)
		}

		if errors.Is(err, search.ErrBusy) {
			fmt.Fprintln(out, "Still loading, try again in a moment.")
			continue
		}
		if err := Render(out, ctrl.State()); err != nil {
			return err
		}
	}
}

// Render writes the conditional sections of s: loading hint, error,
// resident table and the Load More hint.
func Render(w io.Writer, s search.State) error {
	if s.Busy {
		fmt.Fprintln(w, "Loading…")
	}
	if msg := s.ErrorMessage(); msg != "" {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
	if len(s.People) == 0 {
		return nil
	}

	fmt.Fprintf(w, "People from %s\n", s.Planet)

	table := tablewriter.NewTable(w)
	table.Header("#", "Name", "Birth Year")
	for i, p := range s.People {
		if err := table.Append(strconv.Itoa(i+1), p.Name, p.BirthYear); err != nil {
			return fmt.Errorf("render row %d: %w", i+1, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	if s.HasMore() {
		fmt.Fprintln(w, `Type "more" to load more residents.`)
	}
	return nil
}
