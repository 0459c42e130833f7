// Package share encodes a completed attempt into URL query parameters
// and decodes them back. The decoder is the outermost trust boundary
// of the result view: the link is human-shareable and hand-editable,
// so decoding is total over all string inputs and degrades to an
// all-zero attempt instead of failing.
package share

import (
	"strconv"
	"strings"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

// ScoreParam and AnswersParam are the query parameter names of the
// result sharing URL.
const (
	ScoreParam   = "score"
	AnswersParam = "answers"
)

// Encode renders an attempt as the two query parameter values:
// the score as a decimal integer and the answers comma-joined in
// question order.
func Encode(res domain.AttemptResult) (score, answers string) {
	tokens := make([]string, len(res.Answers))
	for i, a := range res.Answers {
		tokens[i] = strconv.Itoa(a)
	}
	return strconv.Itoa(res.Score), strings.Join(tokens, ",")
}

// Decode recovers a best-effort attempt from raw query parameter
// values for a quiz with n questions. It never fails: malformed,
// truncated or over-long input clamps and defaults per value.
func Decode(rawScore, rawAnswers string, n int) domain.AttemptResult {
	return domain.AttemptResult{
		Score:   decodeScore(rawScore),
		Answers: decodeAnswers(rawAnswers, n),
	}
}

func decodeScore(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > domain.MaxScore {
		return domain.MaxScore
	}
	return v
}

func decodeAnswers(raw string, n int) []int {
	answers := make([]int, n)
	if raw == "" {
		return answers
	}
	for i, token := range strings.Split(raw, ",") {
		if i >= n {
			break
		}
		// Negative values clamp to 0. There is no upper clamp: valid
		// option counts vary per question and the renderer tolerates
		// out-of-range indices.
		if v, err := strconv.Atoi(strings.TrimSpace(token)); err == nil && v > 0 {
			answers[i] = v
		}
	}
	return answers
}
