package domain

import (
	"encoding/json"
	"fmt"
)

// QuestionCount is the fixed number of questions in every quiz.
const QuestionCount = 10

// MaxScore is the highest score a completed attempt can reach.
const MaxScore = QuestionCount

// QuizDefinition is a validated quiz document. Definitions are
// immutable once loaded; the slug doubles as storage key and public
// URL segment.
type QuizDefinition struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// QuestionBase holds the fields shared by every question variant.
type QuestionBase struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Question is the closed fact/profile union. Consumers branch on the
// concrete type; correctness data only exists on FactQuestion.
type Question interface {
	Base() QuestionBase
	isQuestion()
}

// FactQuestion has exactly one objectively correct option.
type FactQuestion struct {
	QuestionBase
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
	Sources      []string `json:"sources"`
	FactID       string   `json:"factId"`
}

func (q FactQuestion) Base() QuestionBase { return q.QuestionBase }
func (FactQuestion) isQuestion()          {}

func (q FactQuestion) MarshalJSON() ([]byte, error) {
	type alias FactQuestion
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "fact", alias: alias(q)})
}

// ProfileQuestion elicits a preference; it has no correct option and
// never contributes to the score.
type ProfileQuestion struct {
	QuestionBase
}

func (q ProfileQuestion) Base() QuestionBase { return q.QuestionBase }
func (ProfileQuestion) isQuestion()          {}

func (q ProfileQuestion) MarshalJSON() ([]byte, error) {
	type alias ProfileQuestion
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "profile", alias: alias(q)})
}

func (d *QuizDefinition) UnmarshalJSON(data []byte) error {
	var aux struct {
		Slug        string            `json:"slug"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Questions   []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	questions := make([]Question, 0, len(aux.Questions))
	for i, raw := range aux.Questions {
		q, err := decodeQuestion(raw)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	d.Slug = aux.Slug
	d.Title = aux.Title
	d.Description = aux.Description
	d.Questions = questions
	return nil
}

func decodeQuestion(raw json.RawMessage) (Question, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "fact":
		var q FactQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, err
		}
		return q, nil
	case "profile":
		var q ProfileQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", probe.Type)
	}
}

// AttemptResult is a completed attempt: the score and the selected
// option index per question, in question order. Unanswered and profile
// entries default to 0.
type AttemptResult struct {
	Score   int   `json:"score"`
	Answers []int `json:"answers"`
}
