package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/catalog-api/internal/domain"
)

const fixtureMovieID = "1"

var fixtureMovie = domain.Movie{ID: fixtureMovieID, Title: "Ein Quantum Trost"}

// handleFixtureMovie answers from a single hardcoded record and never touches
// storage.
func (s *Server) handleFixtureMovie(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") != fixtureMovieID {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, fixtureMovie)
}
