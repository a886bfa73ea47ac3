package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateFiltering_EmptyInputsPassVacuously(t *testing.T) {
	result := EvaluateFiltering(nil, nil)

	assert.Equal(t, 0, result.Right)
	assert.Equal(t, 0, result.Wrong)
	assert.True(t, result.IsFiltered)
}

func TestEvaluateFiltering_TiePasses(t *testing.T) {
	questions := []FilteringQuestion{
		{ID: "q1", ExpectedAnswer: "Yes"},
		{ID: "q2", ExpectedAnswer: "no"},
	}
	answers := []FilteringAnswer{
		{QuestionID: "q1", CandidateAnswer: "  YES "},
		{QuestionID: "q2", CandidateAnswer: "yes"},
	}

	result := EvaluateFiltering(questions, answers)

	assert.Equal(t, 1, result.Right)
	assert.Equal(t, 1, result.Wrong)
	assert.True(t, result.IsFiltered)
}

func TestEvaluateFiltering_MajorityWrongFails(t *testing.T) {
	questions := []FilteringQuestion{
		{ID: "q1", ExpectedAnswer: "Yes"},
		{ID: "q2", ExpectedAnswer: "Yes"},
		{ID: "q3", ExpectedAnswer: "No"},
	}
	answers := []FilteringAnswer{
		{QuestionID: "q1", CandidateAnswer: "No"},
		{QuestionID: "q2", CandidateAnswer: "No"},
		{QuestionID: "q3", CandidateAnswer: "No"},
	}

	result := EvaluateFiltering(questions, answers)

	assert.Equal(t, 1, result.Right)
	assert.Equal(t, 2, result.Wrong)
	assert.False(t, result.IsFiltered)
}

func TestEvaluateFiltering_UnknownQuestionIgnored(t *testing.T) {
	questions := []FilteringQuestion{
		{ID: "q1", ExpectedAnswer: "Yes"},
	}
	answers := []FilteringAnswer{
		{QuestionID: "q1", CandidateAnswer: "Yes"},
		{QuestionID: "missing", CandidateAnswer: "No"},
	}

	result := EvaluateFiltering(questions, answers)

	assert.Equal(t, 1, result.Right)
	assert.Equal(t, 0, result.Wrong)
	assert.LessOrEqual(t, result.Right+result.Wrong, len(answers))
	assert.True(t, result.IsFiltered)
}

func TestEvaluateFiltering_OrderIndependent(t *testing.T) {
	questions := []FilteringQuestion{
		{ID: "q1", ExpectedAnswer: "Yes"},
		{ID: "q2", ExpectedAnswer: "No"},
		{ID: "q3", ExpectedAnswer: "Yes"},
	}
	answers := []FilteringAnswer{
		{QuestionID: "q1", CandidateAnswer: "Yes"},
		{QuestionID: "q2", CandidateAnswer: "Yes"},
		{QuestionID: "q3", CandidateAnswer: "Yes"},
	}
	reversed := []FilteringAnswer{answers[2], answers[1], answers[0]}

	assert.Equal(t, EvaluateFiltering(questions, answers), EvaluateFiltering(questions, reversed))
}

func TestEvaluateFiltering_Idempotent(t *testing.T) {
	questions := []FilteringQuestion{
		{ID: "q1", ExpectedAnswer: "Yes"},
		{ID: "q2", ExpectedAnswer: "No"},
	}
	answers := []FilteringAnswer{
		{QuestionID: "q1", CandidateAnswer: "yes"},
		{QuestionID: "q2", CandidateAnswer: "no"},
	}

	first := EvaluateFiltering(questions, answers)
	second := EvaluateFiltering(questions, answers)

	assert.Equal(t, first, second)
}

func TestEvaluateAiFit_EmptyAnswersNotFinal(t *testing.T) {
	result := EvaluateAiFit(nil)

	assert.Equal(t, AiFitResult{Fit: 0, NotFit: 0, IsFinal: false, IsFit: false}, result)
}

func TestEvaluateAiFit_MajorityFit(t *testing.T) {
	result := EvaluateAiFit([]AiAnswer{{IsFit: true}, {IsFit: true}, {IsFit: false}})

	assert.Equal(t, AiFitResult{Fit: 2, NotFit: 1, IsFinal: true, IsFit: true}, result)
}

func TestEvaluateAiFit_TiePasses(t *testing.T) {
	result := EvaluateAiFit([]AiAnswer{{IsFit: true}, {IsFit: false}})

	assert.True(t, result.IsFinal)
	assert.True(t, result.IsFit)
}

func TestEvaluateAiFit_MajorityNotFit(t *testing.T) {
	result := EvaluateAiFit([]AiAnswer{{IsFit: false}, {IsFit: false}, {IsFit: true}})

	assert.True(t, result.IsFinal)
	assert.False(t, result.IsFit)
	assert.Equal(t, 1, result.Fit)
	assert.Equal(t, 2, result.NotFit)
}

func TestAnswerIsFit(t *testing.T) {
	yes := "  YES "
	no := "no"

	assert.True(t, AnswerIsFit(&yes, "yes"))
	assert.False(t, AnswerIsFit(&no, "Yes"))
	// An explicit non-answer always counts against the candidate.
	assert.False(t, AnswerIsFit(nil, "Yes"))
}
