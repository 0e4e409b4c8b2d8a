package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/store/storetest"
)

func decodeMovie(t *testing.T, body []byte) domain.Movie {
	t.Helper()
	var movie domain.Movie
	require.NoError(t, json.Unmarshal(body, &movie))
	return movie
}

func testMovieLifecycle(t *testing.T, srv *Server) {
	rec := do(t, srv, http.MethodGet, "/api/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/movies", `{"title":"Ein Quantum Trost"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeMovie(t, rec.Body.Bytes())
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Ein Quantum Trost", created.Title)
	assert.Equal(t, "/api/movies/"+created.ID, rec.Header().Get("Location"))

	rec = do(t, srv, http.MethodGet, "/api/movies/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeMovie(t, rec.Body.Bytes()))

	rec = do(t, srv, http.MethodPut, "/api/movies/"+created.ID, `{"id":"other","title":"Quantum of Solace"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Movie{ID: created.ID, Title: "Quantum of Solace"}, decodeMovie(t, rec.Body.Bytes()))

	rec = do(t, srv, http.MethodGet, "/api/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, []domain.Movie{{ID: created.ID, Title: "Quantum of Solace"}}, all)

	rec = do(t, srv, http.MethodDelete, "/api/movies/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/movies/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovies_LifecycleMemory(t *testing.T) {
	testMovieLifecycle(t, buildMemoryServer(t))
}

func TestMovies_LifecyclePostgres(t *testing.T) {
	testMovieLifecycle(t, buildTestServer(t, storetest.NewPostgres(t, "catalog_http_test")))
}

func TestMovies_LifecycleMongo(t *testing.T) {
	testMovieLifecycle(t, buildTestServer(t, storetest.NewMongo(t)))
}

func TestSongs_Lifecycle(t *testing.T) {
	srv := buildMemoryServer(t)

	rec := do(t, srv, http.MethodPost, "/api/songs", `{"title":"Yesterday","year":"1965","genre":"Pop","artists":["The Beatles"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created domain.Song
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"The Beatles"}, created.Artists)

	rec = do(t, srv, http.MethodPut, "/api/songs/"+created.ID, `{"title":"Yesterday (Remastered)","year":"2009"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"title":"Yesterday (Remastered)","year":"2009","genre":"","artists":[]}`, created.ID), rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/songs/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"title":"Yesterday (Remastered)","year":"2009","genre":"","artists":[]}`, created.ID), rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/songs/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResource_NotFound(t *testing.T) {
	srv := buildMemoryServer(t)

	cases := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/movies/missing", ""},
		{http.MethodPut, "/api/movies/missing", `{"title":"x"}`},
		{http.MethodDelete, "/api/movies/missing", ""},
		{http.MethodGet, "/api/songs/missing", ""},
		{http.MethodPut, "/api/songs/missing", `{"title":"x"}`},
		{http.MethodDelete, "/api/songs/missing", ""},
	}
	for _, c := range cases {
		t.Run(c.method+" "+c.target, func(t *testing.T) {
			rec := do(t, srv, c.method, c.target, c.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Resource not found"}`, rec.Body.String())
		})
	}
}

func TestResource_DecodeErrors(t *testing.T) {
	srv := buildMemoryServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed", "invalid json", http.StatusUnprocessableEntity},
		{"truncated", `{"title":`, http.StatusUnprocessableEntity},
		{"wrong type", `{"title":42}`, http.StatusUnprocessableEntity},
		{"empty", "", http.StatusUnprocessableEntity},
		{"too large", `{"title":"` + strings.Repeat("a", maxRequestBody) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/movies", c.body)
			assert.Equal(t, c.want, rec.Code)
		})
	}

	rec := do(t, srv, http.MethodGet, "/api/movies", "")
	assert.JSONEq(t, `[]`, rec.Body.String(), "failed decodes must not create entities")
}

func TestResource_UnknownFieldsAreIgnored(t *testing.T) {
	srv := buildMemoryServer(t)
	rec := do(t, srv, http.MethodPost, "/api/movies", `{"title":"Skyfall","director":"Sam Mendes"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Skyfall", decodeMovie(t, rec.Body.Bytes()).Title)
}

func TestResource_CreateIgnoresClientID(t *testing.T) {
	srv := buildMemoryServer(t)

	first := decodeMovie(t, do(t, srv, http.MethodPost, "/api/movies", `{"id":"fixed","title":"A"}`).Body.Bytes())
	second := decodeMovie(t, do(t, srv, http.MethodPost, "/api/movies", `{"id":"fixed","title":"B"}`).Body.Bytes())
	assert.NotEqual(t, "fixed", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}
