package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/analytics"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/app"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

type stubRepository struct {
	def *domain.QuizDefinition
}

func (r stubRepository) GetBySlug(_ context.Context, slug string) (*domain.QuizDefinition, bool, error) {
	if slug == r.def.Slug {
		return r.def, true, nil
	}
	return nil, false, nil
}

func (r stubRepository) ListAll(context.Context) ([]*domain.QuizDefinition, error) {
	return []*domain.QuizDefinition{r.def}, nil
}

type recordingTracker struct {
	events []analytics.Event
}

func (t *recordingTracker) Track(_ context.Context, event analytics.Event, _ string, _ map[string]any) {
	t.events = append(t.events, event)
}

// sampleDefinition builds a 10-question quiz: 8 fact questions with
// correct option 1 and 2 profile questions at the end.
func sampleDefinition() *domain.QuizDefinition {
	questions := make([]domain.Question, 0, domain.QuestionCount)
	for i := 0; i < 8; i++ {
		questions = append(questions, domain.FactQuestion{
			QuestionBase: domain.QuestionBase{
				ID:       fmt.Sprintf("fact-%d", i),
				Question: fmt.Sprintf("Faktafråga %d?", i),
				Options:  []string{"Alternativ A", "Alternativ B", "Alternativ C"},
			},
			CorrectIndex: 1,
			Explanation:  "Rätt svar är B.",
			Sources:      []string{"Testkällan"},
			FactID:       fmt.Sprintf("fact-id-%d", i),
		})
	}
	for i := 0; i < 2; i++ {
		questions = append(questions, domain.ProfileQuestion{
			QuestionBase: domain.QuestionBase{
				ID:       fmt.Sprintf("profile-%d", i),
				Question: "Vad föredrar du?",
				Options:  []string{"Det ena", "Det andra", "Det tredje"},
			},
		})
	}
	return &domain.QuizDefinition{
		Slug:        "testquiz",
		Title:       "Testquiz",
		Description: "Ett quiz för tester.",
		Questions:   questions,
	}
}

func newTestServer(t *testing.T, tracker analytics.Tracker) *httptest.Server {
	t.Helper()
	repo := stubRepository{def: sampleDefinition()}
	api := NewAPI(repo, tracker, nil)
	play := NewPlayHandler(app.NewPlayService(repo, tracker), nil)
	server := httptest.NewServer(NewRouter(api, play))
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestListQuizzes(t *testing.T) {
	server := newTestServer(t, analytics.NopTracker{})

	var summaries []quizSummary
	resp := getJSON(t, server.URL+"/api/quizzes", &summaries)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one quiz, got %d", len(summaries))
	}
	if summaries[0].Slug != "testquiz" || summaries[0].QuestionCount != 10 {
		t.Fatalf("unexpected summary %+v", summaries[0])
	}
}

func TestGetQuizTracksView(t *testing.T) {
	tracker := &recordingTracker{}
	server := newTestServer(t, tracker)

	var def domain.QuizDefinition
	resp := getJSON(t, server.URL+"/api/quizzes/testquiz", &def)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if def.Slug != "testquiz" || len(def.Questions) != 10 {
		t.Fatalf("unexpected definition %q with %d questions", def.Slug, len(def.Questions))
	}
	if len(tracker.events) != 1 || tracker.events[0] != analytics.EventView {
		t.Fatalf("expected a view event, got %v", tracker.events)
	}
}

func TestGetQuizNotFound(t *testing.T) {
	server := newTestServer(t, analytics.NopTracker{})
	resp := getJSON(t, server.URL+"/api/quizzes/finns-inte", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestResultViewFromShareParams(t *testing.T) {
	server := newTestServer(t, analytics.NopTracker{})

	var result resultResponse
	resp := getJSON(t, server.URL+"/api/quizzes/testquiz/result?score=6&answers=1,1,1,1,1,1,0,0,0,2", &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if result.Score != 6 || result.Tier != domain.TierSilver {
		t.Fatalf("expected silver score 6, got score=%d tier=%s", result.Score, result.Tier)
	}
	if result.Badge == "" || result.Interpretation == "" {
		t.Fatalf("expected badge and interpretation, got %+v", result)
	}
	if len(result.Review) != 10 {
		t.Fatalf("expected review for all questions, got %d", len(result.Review))
	}
	// Question 0 was answered correctly: its correct option is marked.
	if result.Review[0].Options[1].State != app.OptionCorrect {
		t.Fatalf("expected correct state, got %+v", result.Review[0].Options)
	}
	// Question 6 was answered wrong: picked option wrong, correct missed.
	if result.Review[6].Options[0].State != app.OptionWrong || result.Review[6].Options[1].State != app.OptionMissed {
		t.Fatalf("unexpected review states %+v", result.Review[6].Options)
	}
}

func TestResultViewDegradesMalformedParams(t *testing.T) {
	server := newTestServer(t, analytics.NopTracker{})

	var result resultResponse
	resp := getJSON(t, server.URL+"/api/quizzes/testquiz/result?score=trasig&answers=x,,99", &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("malformed params must not fail, got %d", resp.StatusCode)
	}
	if result.Score != 0 || result.Tier != domain.TierBronze {
		t.Fatalf("expected bronze zero score, got %+v", result)
	}
	if len(result.Answers) != 10 {
		t.Fatalf("expected padded answers, got %v", result.Answers)
	}
}

func TestShareTracksEvent(t *testing.T) {
	tracker := &recordingTracker{}
	server := newTestServer(t, tracker)

	resp, err := http.Post(server.URL+"/api/quizzes/testquiz/share", "application/json", nil)
	if err != nil {
		t.Fatalf("POST share: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if len(tracker.events) != 1 || tracker.events[0] != analytics.EventShare {
		t.Fatalf("expected a share event, got %v", tracker.events)
	}
}
