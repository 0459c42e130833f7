package app

import (
	"context"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/analytics"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

// DefinitionRepository abstracts how validated quiz definitions are
// looked up (content directory, Postgres, cached).
type DefinitionRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.QuizDefinition, bool, error)
	ListAll(ctx context.Context) ([]*domain.QuizDefinition, error)
}

// PlayService contains the play-time use cases: starting sessions and
// feeding the state machine, with lifecycle events emitted along the
// way.
type PlayService struct {
	quizzes DefinitionRepository
	tracker analytics.Tracker
}

func NewPlayService(quizzes DefinitionRepository, tracker analytics.Tracker) *PlayService {
	if tracker == nil {
		tracker = analytics.NopTracker{}
	}
	return &PlayService{quizzes: quizzes, tracker: tracker}
}

// Start creates a session for a quiz slug. ok=false means the quiz
// does not exist; any error is a load or validation failure.
func (s *PlayService) Start(ctx context.Context, slug string) (*Session, bool, error) {
	def, ok, err := s.quizzes.GetBySlug(ctx, slug)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.tracker.Track(ctx, analytics.EventView, def.Slug, nil)
	s.tracker.Track(ctx, analytics.EventStart, def.Slug, nil)
	return NewSession(def), true, nil
}

// RecordAnswer locks in an answer for the session's current question.
// A no-op transition (already locked, completed, out-of-range option)
// returns false and emits nothing.
func (s *PlayService) RecordAnswer(ctx context.Context, session *Session, optionIndex int) bool {
	questionIndex := session.CurrentIndex()
	if !session.SelectAnswer(optionIndex) {
		return false
	}
	s.tracker.Track(ctx, analytics.EventAnswer, session.Definition().Slug, map[string]any{
		"question": questionIndex,
		"option":   optionIndex,
	})
	return true
}

// Advance moves the session forward and emits completion events when
// the attempt finishes.
func (s *PlayService) Advance(ctx context.Context, session *Session) bool {
	if !session.Advance() {
		return false
	}
	if session.Completed() {
		result, _ := session.Result()
		slug := session.Definition().Slug
		s.tracker.Track(ctx, analytics.EventComplete, slug, map[string]any{"score": result.Score})
		s.tracker.Track(ctx, analytics.EventScoreBucket, slug, map[string]any{
			"bucket": string(domain.ScoreBucket(result.Score)),
		})
	}
	return true
}
