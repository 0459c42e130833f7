package app

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

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

func TestSelectAnswerLocksFirstAnswer(t *testing.T) {
	session := NewSession(sampleDefinition())

	if !session.SelectAnswer(1) {
		t.Fatalf("first answer should be accepted")
	}
	if session.SelectAnswer(2) {
		t.Fatalf("locked question must ignore a second answer")
	}
	selected, locked := session.Answer(0)
	if selected != 1 || !locked {
		t.Fatalf("expected answer 1 locked, got selected=%d locked=%v", selected, locked)
	}
}

func TestSelectAnswerRejectsOutOfRangeOption(t *testing.T) {
	session := NewSession(sampleDefinition())
	if session.SelectAnswer(-1) || session.SelectAnswer(3) {
		t.Fatalf("out-of-range option must be a no-op")
	}
	if _, locked := session.Answer(0); locked {
		t.Fatalf("no-op select must not lock the question")
	}
}

func TestAdvanceRequiresLockedQuestion(t *testing.T) {
	session := NewSession(sampleDefinition())
	if session.Advance() {
		t.Fatalf("advance before answering must be rejected")
	}
	if !session.SelectAnswer(0) || !session.Advance() {
		t.Fatalf("advance after locking should succeed")
	}
	if session.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", session.CurrentIndex())
	}
}

func TestCompletionScoresFactQuestions(t *testing.T) {
	session := NewSession(sampleDefinition())

	// 6 correct fact answers, 2 wrong, then the profile questions.
	picks := []int{1, 1, 1, 1, 1, 1, 0, 0, 0, 2}
	for i, pick := range picks {
		if !session.SelectAnswer(pick) {
			t.Fatalf("question %d: answer rejected", i)
		}
		if !session.Advance() {
			t.Fatalf("question %d: advance rejected", i)
		}
	}

	if !session.Completed() {
		t.Fatalf("expected completed session")
	}
	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected result after completion")
	}
	if result.Score != 6 {
		t.Fatalf("expected score 6, got %d", result.Score)
	}
	if !reflect.DeepEqual(result.Answers, picks) {
		t.Fatalf("expected answers %v, got %v", picks, result.Answers)
	}
	if meta := domain.Classify(result.Score); meta.Tier != domain.TierSilver {
		t.Fatalf("expected silver for score 6, got %s", meta.Tier)
	}

	// Completed is terminal.
	if session.SelectAnswer(0) || session.Advance() {
		t.Fatalf("completed session must reject further transitions")
	}
}

func TestUnansweredDefaultsToZero(t *testing.T) {
	// Profile answers and unanswered questions encode as 0; an
	// unanswered question can only exist as the never-reached tail,
	// so answer everything and verify the profile entries.
	session := NewSession(sampleDefinition())
	for i := 0; i < domain.QuestionCount; i++ {
		session.SelectAnswer(0)
		session.Advance()
	}
	result, _ := session.Result()
	if result.Score != 0 {
		t.Fatalf("expected score 0 for all-wrong answers, got %d", result.Score)
	}
	if !reflect.DeepEqual(result.Answers, make([]int, 10)) {
		t.Fatalf("expected all-zero answers, got %v", result.Answers)
	}
}

func TestOptionStatesAreDerived(t *testing.T) {
	def := sampleDefinition()
	fact := def.Questions[0]
	profile := def.Questions[8]

	if got := StateForOption(fact, 0, -1, false); got != OptionDefault {
		t.Fatalf("unlocked option should be default, got %s", got)
	}
	// Wrong pick: option 0 selected, correct is 1.
	if got := QuestionStates(fact, 0, true); !reflect.DeepEqual(got, []OptionState{OptionWrong, OptionMissed, OptionDefault}) {
		t.Fatalf("unexpected states for wrong pick: %v", got)
	}
	// Correct pick.
	if got := QuestionStates(fact, 1, true); !reflect.DeepEqual(got, []OptionState{OptionDefault, OptionCorrect, OptionDefault}) {
		t.Fatalf("unexpected states for correct pick: %v", got)
	}
	// A locked profile choice has no correctness, only a selection.
	if got := QuestionStates(profile, 2, true); !reflect.DeepEqual(got, []OptionState{OptionDefault, OptionDefault, OptionSelected}) {
		t.Fatalf("unexpected states for profile pick: %v", got)
	}
}
