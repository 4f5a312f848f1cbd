package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/swapi-planet-search/internal/testutil"
	"github.com/Sternrassler/swapi-planet-search/pkg/residents"
	"github.com/Sternrassler/swapi-planet-search/pkg/search"
	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
)

func newController(t *testing.T, mock *testutil.MockCatalog) *search.Controller {
	t.Helper()

	cfg := swapi.DefaultConfig("planet-search-test/1.0")
	cfg.BaseURL = mock.BaseURL()
	client, err := swapi.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	return search.New(client, residents.NewFetcher(client, residents.DefaultConfig()), search.WithLogger(zerolog.Nop()))
}

func TestRun_SearchAndLoadMore(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.AddPeople(1, 10)
	mock.AddPeople(12, 12)
	mock.AddPersonWithResidents(11, "Person 11", "11BBY", mock.PersonURLs(12, 12))
	mock.AddPlanet("Tatooine", mock.PersonURLs(1, 11))

	ctrl := newController(t, mock)
	in := strings.NewReader("Tatooine\nmore\nmore\nquit\n")
	out := &bytes.Buffer{}

	if err := Run(context.Background(), in, out, ctrl); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"People from Tatooine", "Person 1", "10BBY", `Type "more"`, "Person 12", "No more residents to load."} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if n := len(ctrl.State().People); n != 11 {
		t.Errorf("len(People) = %d, want 11", n)
	}
}

func TestRun_ErrorMessage(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()
	mock.AddPlanet("Hoth", []string{})

	ctrl := newController(t, mock)
	out := &bytes.Buffer{}

	if err := Run(context.Background(), strings.NewReader("Nonexistentia\nHoth\n"), out, ctrl); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Error: Planet not found.") {
		t.Errorf("missing not-found message:\n%s", text)
	}
	if !strings.Contains(text, "Error: No residents found for this planet.") {
		t.Errorf("missing empty-result message:\n%s", text)
	}
}

func TestRun_Clear(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()
	mock.AddPeople(1, 2)
	mock.AddPlanet("Endor", mock.PersonURLs(1, 2))

	ctrl := newController(t, mock)
	out := &bytes.Buffer{}

	if err := Run(context.Background(), strings.NewReader("Endor\nclear\n"), out, ctrl); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Cleared.") {
		t.Errorf("missing clear confirmation:\n%s", out.String())
	}
	state := ctrl.State()
	if len(state.People) != 0 || state.Err != nil {
		t.Errorf("state after clear = %+v", state)
	}
	if state.Query != "Endor" {
		t.Errorf("Query = %q, want Endor kept", state.Query)
	}
}

func TestRun_BlankLinesIssueNoRequests(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	ctrl := newController(t, mock)
	if err := Run(context.Background(), strings.NewReader("\n   \n\n"), &bytes.Buffer{}, ctrl); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("requests = %v, want none", mock.Requests())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, strings.NewReader("Tatooine\n"), &bytes.Buffer{}, newController(t, mock))
	if err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		state   search.State
		want    []string
		notWant []string
	}{
		{
			name:    "empty",
			state:   search.State{},
			notWant: []string{"Error", "People from", "more", "Loading"},
		},
		{
			name:    "busy",
			state:   search.State{Busy: true},
			want:    []string{"Loading"},
			notWant: []string{"People from"},
		},
		{
			name: "list without cursor",
			state: search.State{
				Planet: "Tatooine",
				People: []swapi.Person{{Name: "Luke Skywalker", BirthYear: "19BBY"}},
			},
			want:    []string{"People from Tatooine", "Luke Skywalker", "19BBY"},
			notWant: []string{`Type "more"`},
		},
		{
			name: "list with cursor",
			state: search.State{
				Planet: "Tatooine",
				People: []swapi.Person{{Name: "Luke Skywalker", BirthYear: "19BBY"}},
				Cursor: "https://swapi.dev/api/people/11/",
			},
			want: []string{`Type "more"`},
		},
		{
			name: "heading follows the listed planet",
			state: search.State{
				Query:  "Hoth",
				Planet: "Tatooine",
				People: []swapi.Person{{Name: "Luke Skywalker", BirthYear: "19BBY"}},
			},
			want:    []string{"People from Tatooine"},
			notWant: []string{"People from Hoth"},
		},
		{
			name:  "error",
			state: search.State{Err: &search.Error{Kind: search.KindLookup}},
			want:  []string{"Error: Error retrieving planet data."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := Render(buf, tt.state); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(buf.String(), w) {
					t.Errorf("output should not contain %q:\n%s", w, buf.String())
				}
			}
		})
	}
}
