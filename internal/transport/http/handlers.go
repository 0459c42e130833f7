// Package http exposes the quiz pipeline over HTTP: a small JSON API
// for the marketing site plus the websocket play transport.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/analytics"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/app"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/share"
)

// API serves quiz definitions and decoded result views.
type API struct {
	quizzes app.DefinitionRepository
	tracker analytics.Tracker
	logger  *slog.Logger
}

func NewAPI(quizzes app.DefinitionRepository, tracker analytics.Tracker, logger *slog.Logger) *API {
	if tracker == nil {
		tracker = analytics.NopTracker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &API{quizzes: quizzes, tracker: tracker, logger: logger}
}

// NewRouter wires the API and play handler into one chi router.
func NewRouter(api *API, play *PlayHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api/quizzes", func(r chi.Router) {
		r.Get("/", api.handleList)
		r.Get("/{slug}", api.handleGet)
		r.Get("/{slug}/result", api.handleResult)
		r.Post("/{slug}/share", api.handleShare)
	})
	r.Get("/ws/play", play.ServeWS)
	return r
}

type quizSummary struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	defs, err := a.quizzes.ListAll(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	summaries := make([]quizSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, quizSummary{
			Slug:          def.Slug,
			Title:         def.Title,
			Description:   def.Description,
			QuestionCount: len(def.Questions),
		})
	}
	a.writeJSON(w, http.StatusOK, summaries)
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	def, ok := a.lookup(w, r)
	if !ok {
		return
	}
	a.tracker.Track(r.Context(), analytics.EventView, def.Slug, nil)
	a.writeJSON(w, http.StatusOK, def)
}

type optionReview struct {
	Text  string          `json:"text"`
	State app.OptionState `json:"state"`
}

type questionReview struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Question    string         `json:"question"`
	Options     []optionReview `json:"options"`
	Explanation string         `json:"explanation,omitempty"`
	Sources     []string       `json:"sources,omitempty"`
}

type resultResponse struct {
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Score          int              `json:"score"`
	Badge          string           `json:"badge"`
	Tier           domain.Tier      `json:"tier"`
	Interpretation string           `json:"interpretation"`
	Answers        []int            `json:"answers"`
	Review         []questionReview `json:"review"`
}

// handleResult decodes the shareable result parameters and renders the
// classified result. The parameters are never rejected: malformed or
// truncated input degrades to a valid all-zero attempt so a shared
// link always resolves.
func (a *API) handleResult(w http.ResponseWriter, r *http.Request) {
	def, ok := a.lookup(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	result := share.Decode(query.Get(share.ScoreParam), query.Get(share.AnswersParam), len(def.Questions))
	meta := domain.Classify(result.Score)

	review := make([]questionReview, 0, len(def.Questions))
	for i, q := range def.Questions {
		review = append(review, buildReview(q, result.Answers[i]))
	}

	a.writeJSON(w, http.StatusOK, resultResponse{
		Slug:           def.Slug,
		Title:          def.Title,
		Score:          result.Score,
		Badge:          meta.Badge,
		Tier:           meta.Tier,
		Interpretation: meta.Interpretation,
		Answers:        result.Answers,
		Review:         review,
	})
}

func buildReview(q domain.Question, answered int) questionReview {
	base := q.Base()
	states := app.QuestionStates(q, answered, true)
	options := make([]optionReview, len(base.Options))
	for i, text := range base.Options {
		options[i] = optionReview{Text: text, State: states[i]}
	}

	r := questionReview{
		ID:       base.ID,
		Question: base.Question,
		Options:  options,
	}
	switch q := q.(type) {
	case domain.FactQuestion:
		r.Type = "fact"
		r.Explanation = q.Explanation
		r.Sources = q.Sources
	case domain.ProfileQuestion:
		r.Type = "profile"
	}
	return r
}

// handleShare records a share click. Fire-and-forget; the client does
// not consume a body.
func (a *API) handleShare(w http.ResponseWriter, r *http.Request) {
	def, ok := a.lookup(w, r)
	if !ok {
		return
	}
	a.tracker.Track(r.Context(), analytics.EventShare, def.Slug, nil)
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the slug path parameter; a missing quiz is a plain
// 404, any load failure a 500.
func (a *API) lookup(w http.ResponseWriter, r *http.Request) (*domain.QuizDefinition, bool) {
	slug := chi.URLParam(r, "slug")
	def, ok, err := a.quizzes.GetBySlug(r.Context(), slug)
	if err != nil {
		a.serverError(w, r, err)
		return nil, false
	}
	if !ok {
		a.writeJSON(w, http.StatusNotFound, map[string]string{"error": "quiz not found"})
		return nil, false
	}
	return def, true
}

func (a *API) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.ErrorContext(r.Context(), "quiz request failed", "path", r.URL.Path, "error", err)
	a.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("write response", "error", err)
	}
}
