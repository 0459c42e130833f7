package app

import (
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

// questionState tracks one question during play. selected stays -1
// until the question is answered; locked flips on the first answer and
// never flips back.
type questionState struct {
	selected int
	locked   bool
}

// Session drives a single quiz attempt. It is owned by exactly one
// interactive session at a time and is not safe for concurrent use;
// only one user input can be in flight against it.
type Session struct {
	def       *domain.QuizDefinition
	current   int
	questions []questionState
	completed bool
	result    domain.AttemptResult
}

// NewSession starts an attempt at question 0 with every question
// unlocked and unselected.
func NewSession(def *domain.QuizDefinition) *Session {
	questions := make([]questionState, len(def.Questions))
	for i := range questions {
		questions[i].selected = -1
	}
	return &Session{def: def, questions: questions}
}

func (s *Session) Definition() *domain.QuizDefinition { return s.def }

// CurrentIndex is the 0-based index of the question in play. After
// completion it stays on the last question.
func (s *Session) CurrentIndex() int { return s.current }

func (s *Session) CurrentQuestion() domain.Question { return s.def.Questions[s.current] }

func (s *Session) Completed() bool { return s.completed }

// Answer reports the recorded answer for a question index: the
// selected option (-1 if none) and whether the question is locked.
func (s *Session) Answer(index int) (selected int, locked bool) {
	if index < 0 || index >= len(s.questions) {
		return -1, false
	}
	st := s.questions[index]
	return st.selected, st.locked
}

// Result returns the computed attempt once the session is completed.
func (s *Session) Result() (domain.AttemptResult, bool) {
	if !s.completed {
		return domain.AttemptResult{}, false
	}
	return s.result, true
}

// SelectAnswer records the first answer for the current question and
// locks it. The first answer is final: re-invoking on a locked
// question is a no-op, as is an option index outside the question's
// options or a call after completion.
func (s *Session) SelectAnswer(optionIndex int) bool {
	if s.completed {
		return false
	}
	st := &s.questions[s.current]
	if st.locked {
		return false
	}
	if optionIndex < 0 || optionIndex >= len(s.CurrentQuestion().Base().Options) {
		return false
	}
	st.selected = optionIndex
	st.locked = true
	return true
}

// Advance moves to the next question. It is legal only once the
// current question is locked; skipping an unanswered question or
// revisiting a prior one is impossible. Advancing past the last
// question completes the session exactly once and computes the result.
func (s *Session) Advance() bool {
	if s.completed || !s.questions[s.current].locked {
		return false
	}
	if s.current+1 >= len(s.def.Questions) {
		s.completed = true
		s.result = s.computeResult()
		return true
	}
	s.current++
	return true
}

func (s *Session) computeResult() domain.AttemptResult {
	answers := make([]int, len(s.def.Questions))
	score := 0
	for i, q := range s.def.Questions {
		st := s.questions[i]
		if st.selected >= 0 {
			answers[i] = st.selected
		}
		switch q := q.(type) {
		case domain.FactQuestion:
			if st.locked && st.selected == q.CorrectIndex {
				score++
			}
		case domain.ProfileQuestion:
			// Preference only, never scored.
		}
	}
	return domain.AttemptResult{Score: score, Answers: answers}
}

// OptionState is the derived render state of one option. It is
// computed on demand from the locked/selected/correctIndex triple and
// never cached.
type OptionState string

const (
	OptionDefault OptionState = "default"
	OptionCorrect OptionState = "correct"
	OptionWrong   OptionState = "wrong"
	OptionMissed  OptionState = "missed"
	// OptionSelected marks the locked choice on a profile question,
	// which has no notion of correct.
	OptionSelected OptionState = "selected"
)

// StateForOption derives the render state of an option given the
// recorded answer for its question.
func StateForOption(q domain.Question, optionIndex, selected int, locked bool) OptionState {
	if !locked {
		return OptionDefault
	}
	switch q := q.(type) {
	case domain.FactQuestion:
		switch {
		case optionIndex == selected && optionIndex == q.CorrectIndex:
			return OptionCorrect
		case optionIndex == selected:
			return OptionWrong
		case optionIndex == q.CorrectIndex:
			return OptionMissed
		}
	case domain.ProfileQuestion:
		if optionIndex == selected {
			return OptionSelected
		}
	}
	return OptionDefault
}

// QuestionStates derives the state of every option of a question.
func QuestionStates(q domain.Question, selected int, locked bool) []OptionState {
	options := q.Base().Options
	states := make([]OptionState, len(options))
	for i := range options {
		states[i] = StateForOption(q, i, selected, locked)
	}
	return states
}
