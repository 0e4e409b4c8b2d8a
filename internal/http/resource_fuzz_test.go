package httpserver

import (
	"net/http"
	"testing"
)

func FuzzCreateSong(f *testing.F) {
	seeds := []string{
		`{"title":"Yesterday","year":"1965","genre":"Pop","artists":["The Beatles"]}`,
		`{"artists":null}`,
		`{"title":1}`,
		`[]`,
		`null`,
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	srv := buildMemoryServer(f)
	f.Fuzz(func(t *testing.T, body string) {
		rec := do(t, srv, http.MethodPost, "/api/songs", body)
		if rec.Code >= http.StatusInternalServerError {
			t.Fatalf("body %q produced status %d", body, rec.Code)
		}
	})
}
