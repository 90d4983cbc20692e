package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/internal/catalog/domain"
	"github.com/reelmetrics/reelmetrics/internal/recommend"
	userservice "github.com/reelmetrics/reelmetrics/internal/user/service"
	"github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
)

// GenreLister enumerates the catalog's genres for the report filter pickers.
type GenreLister interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
}

// Server exposes the report, user, and recommendation services over a JSON
// HTTP API.
type Server struct {
	reports   *analytics.ReportService
	users     *userservice.UserService
	recommend *recommend.Service
	genres    GenreLister
	logger    interfaces.Logger
}

// New creates a new API server.
func New(
	reports *analytics.ReportService,
	users *userservice.UserService,
	rec *recommend.Service,
	genres GenreLister,
	logger interfaces.Logger,
) *Server {
	return &Server{
		reports:   reports,
		users:     users,
		recommend: rec,
		genres:    genres,
		logger:    logger,
	}
}

// Register mounts the API routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/genres", s.report(s.reports.GenreDistribution))
	mux.HandleFunc("GET /api/reports/countries", s.report(s.reports.CountryDistribution))
	mux.HandleFunc("GET /api/reports/directors", s.report(s.reports.TopDirectors))
	mux.HandleFunc("GET /api/reports/actors", s.report(s.reports.TopActors))
	mux.HandleFunc("GET /api/reports/starred", s.report(s.reports.TopStarredActors))
	mux.HandleFunc("GET /api/reports/yearly", s.report(s.reports.YearlyTrend))
	mux.HandleFunc("GET /api/reports/runtime", s.report(s.reports.RuntimeByGenre))
	mux.HandleFunc("GET /api/reports/trending", s.handleTrending)

	mux.HandleFunc("GET /api/genres", s.handleListGenres)
	mux.HandleFunc("GET /api/movies/search", s.handleSearch)
	mux.HandleFunc("GET /api/movies/{id}/indicator", s.handleIndicator)

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/{id}/favorites", s.handleListFavorites)
	mux.HandleFunc("PUT /api/users/{id}/favorites/{movie}", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/users/{id}/favorites/{movie}", s.handleRemoveFavorite)
	mux.HandleFunc("GET /api/users/{id}/recommendations", s.handleRecommendations)
	mux.HandleFunc("DELETE /api/recommendations/{movie}", s.handleDismiss)
}

type reportFunc func(ctx context.Context, filter analytics.Filter) ([]analytics.AggregatedRow, error)

// aggregatedRow is the wire shape of one report row.
type aggregatedRow struct {
	Key       string             `json:"key"`
	Secondary string             `json:"secondary,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// report adapts a filtered aggregation report to an HTTP handler. Filters
// arrive as repeatable query parameters: year, genre, director.
func (s *Server) report(compute reportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		rows, err := compute(r.Context(), filter)
		if err != nil {
			s.writeError(w, err)
			return
		}

		out := make([]aggregatedRow, len(rows))
		for i, row := range rows {
			out[i] = aggregatedRow{
				Key:       row.Key.Primary,
				Secondary: row.Key.Secondary,
				Metrics:   row.Metrics,
			}
		}
		s.writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.TrendingReport(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	type trendingMovie struct {
		Title          string  `json:"title"`
		ReleaseYear    int     `json:"release_year"`
		Popularity     float64 `json:"popularity"`
		VoteAverage    float64 `json:"vote_average"`
		VoteCount      int     `json:"vote_count"`
		WeightedRating float64 `json:"weighted_rating"`
		TrendScore     float64 `json:"trend_score"`
	}
	out := make([]trendingMovie, len(rows))
	for i, m := range rows {
		out[i] = trendingMovie{
			Title:          m.Title,
			ReleaseYear:    m.ReleaseYear,
			Popularity:     m.Popularity,
			VoteAverage:    m.VoteAverage,
			VoteCount:      m.VoteCount,
			WeightedRating: m.WeightedRating,
			TrendScore:     m.TrendScore,
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genres.ListGenres(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	type genre struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	out := make([]genre, len(genres))
	for i, g := range genres {
		out[i] = genre{ID: g.ID, Name: g.Name}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, errors.BadRequest("query parameter q is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.reports.SearchMovies(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type searchResult struct {
		MovieID     uint    `json:"movie_id"`
		Title       string  `json:"title"`
		ReleaseYear int     `json:"release_year"`
		Popularity  float64 `json:"popularity"`
		VoteAverage float64 `json:"vote_average"`
	}
	out := make([]searchResult, len(records))
	for i, rec := range records {
		out[i] = searchResult{
			MovieID:     rec.MovieID,
			Title:       rec.Title,
			ReleaseYear: rec.ReleaseYear,
			Popularity:  rec.Popularity,
			VoteAverage: rec.VoteAverage,
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIndicator(w http.ResponseWriter, r *http.Request) {
	movieID, err := moviePathValue(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	indicator, err := s.reports.MovieIndicator(r.Context(), movieID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"movie_id":        indicator.MovieID,
		"title":           indicator.Title,
		"weighted_rating": indicator.WeightedRating,
		"combined_score":  indicator.CombinedScore,
		"rating_defined":  indicator.RatingDefined,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	user, err := s.users.Register(r.Context(), body.Username, body.Email, body.Password, body.DisplayName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":           user.ID.String(),
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	user, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           user.ID.String(),
		"username":     user.Username,
		"display_name": user.DisplayName,
	})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := userPathValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	movies, err := s.users.ListFavorites(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, movieList(movies))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := userPathValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	movieID, err := moviePathValue(r, "movie")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.users.AddFavorite(r.Context(), userID, movieID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := userPathValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	movieID, err := moviePathValue(r, "movie")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.users.RemoveFavorite(r.Context(), userID, movieID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := userPathValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sessionID := sessionFrom(r)

	result, err := s.recommend.Personalized(r.Context(), userID, sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type genreCount struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	genres := make([]genreCount, len(result.TopGenres))
	for i, g := range result.TopGenres {
		genres[i] = genreCount{Name: g.Name, Count: g.Count}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"needs_favorites": result.NeedsFavorites,
		"top_genres":      genres,
		"movies":          movieList(result.Movies),
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	movieID, err := moviePathValue(r, "movie")
	if err != nil {
		s.writeError(w, err)
		return
	}
	sessionID := sessionFrom(r)

	if err := s.recommend.Dismiss(r.Context(), sessionID, movieID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// movieSummary is the wire shape of one catalog movie.
type movieSummary struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"release_year"`
	Popularity  float64  `json:"popularity"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
}

func movieList(movies []domain.Movie) []movieSummary {
	out := make([]movieSummary, len(movies))
	for i, m := range movies {
		out[i] = movieSummary{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseYear: m.ReleaseYear,
			Popularity:  m.Popularity,
			VoteAverage: m.VoteAverage,
			Genres:      m.Genres,
		}
	}
	return out
}

// filterFromQuery parses the repeatable year, genre, and director query
// parameters into a report filter.
func filterFromQuery(r *http.Request) (analytics.Filter, error) {
	var filter analytics.Filter
	q := r.URL.Query()

	for _, raw := range q["year"] {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return analytics.Filter{}, errors.BadRequest("invalid year: " + raw)
		}
		filter.Years = append(filter.Years, year)
	}
	filter.Genres = q["genre"]
	filter.Directors = q["director"]
	return filter, nil
}

func userPathValue(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid user id")
	}
	return id, nil
}

func moviePathValue(r *http.Request, key string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(key), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("invalid movie id")
	}
	return uint(id), nil
}

// sessionFrom resolves the recommendation session, falling back to the
// client's remote address when no session header is present.
func sessionFrom(r *http.Request) string {
	if session := r.Header.Get("X-Session-ID"); session != "" {
		return session
	}
	return r.RemoteAddr
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", interfaces.Error(err))
	}
}

// writeError maps the application error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsBadRequest(err):
		status = http.StatusBadRequest
	case errors.IsConflict(err):
		status = http.StatusConflict
	case errors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case errors.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", interfaces.Error(err))
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
