// Package screening holds the pure candidate scoring rules: filtering
// question scoring at apply time and AI-screening fit evaluation.
package screening

import "strings"

// FilteringQuestion carries the expected answer an employer configured for a
// yes/no screening question.
type FilteringQuestion struct {
	ID             string
	ExpectedAnswer string
}

// FilteringAnswer is a candidate's answer to one filtering question.
type FilteringAnswer struct {
	QuestionID      string
	CandidateAnswer string
}

// FilteringResult is the outcome of scoring a candidate's filtering answers.
type FilteringResult struct {
	Right      int
	Wrong      int
	IsFiltered bool
}

// EvaluateFiltering scores candidate answers against the expected answers.
// Answers referencing an unknown question id are ignored and counted
// neither way. Comparison is whitespace-trimmed and case-insensitive. A
// candidate passes when right >= wrong: ties pass, and a candidate with no
// scorable answers passes vacuously.
func EvaluateFiltering(questions []FilteringQuestion, answers []FilteringAnswer) FilteringResult {
	expected := make(map[string]string, len(questions))
	for _, q := range questions {
		expected[q.ID] = q.ExpectedAnswer
	}

	right := 0
	wrong := 0
	for _, ans := range answers {
		want, ok := expected[ans.QuestionID]
		if !ok {
			continue
		}

		if normalize(want) == normalize(ans.CandidateAnswer) {
			right++
		} else {
			wrong++
		}
	}

	return FilteringResult{
		Right:      right,
		Wrong:      wrong,
		IsFiltered: right >= wrong,
	}
}

// AiAnswer is one AI-screening answer reduced to a per-question fit flag.
type AiAnswer struct {
	IsFit bool
}

// AiFitResult is the outcome of the final AI-screening decision.
type AiFitResult struct {
	Fit     int
	NotFit  int
	IsFinal bool
	IsFit   bool
}

// EvaluateAiFit renders the final fit verdict over per-question fit flags.
// An empty answer list means the screening result cannot be computed yet:
// IsFinal is false and the caller must not treat it as a failing verdict.
// Otherwise the same majority-or-tie rule as filtering applies: fit >= notFit
// passes.
func EvaluateAiFit(answers []AiAnswer) AiFitResult {
	if len(answers) == 0 {
		return AiFitResult{}
	}

	fit := 0
	notFit := 0
	for _, ans := range answers {
		if ans.IsFit {
			fit++
		} else {
			notFit++
		}
	}

	return AiFitResult{
		Fit:     fit,
		NotFit:  notFit,
		IsFinal: true,
		IsFit:   fit >= notFit,
	}
}

// AnswerIsFit maps a raw AI-screening answer to its fit flag. A nil or
// missing candidate answer always counts against the candidate, unlike the
// filtering rule where unresolvable answers are ignored.
func AnswerIsFit(candidateAnswer *string, expectedAnswer string) bool {
	if candidateAnswer == nil {
		return false
	}
	return normalize(*candidateAnswer) == normalize(expectedAnswer)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
