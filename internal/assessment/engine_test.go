package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishalabs/disha-gateway/internal/model"
)

func validInfo() model.BasicInfo {
	return model.BasicInfo{
		Name:            "Asha Verma",
		Grade:           11,
		Gender:          "female",
		SchoolName:      "St. Mary's School",
		Subjects:        []string{"Mathematics", "English"},
		GuardianContact: "+91 98765 43210",
	}
}

func newTestEngine(t *testing.T, onSubmit SubmitFunc) *Engine {
	t.Helper()
	return NewEngine("sess-1", DefaultBank(), 2700, onSubmit)
}

// startAssessment creates an engine and moves it into the assessment step.
func startAssessment(t *testing.T, onSubmit SubmitFunc) *Engine {
	t.Helper()
	e := newTestEngine(t, onSubmit)
	fields, err := e.CompleteBasicInfo(validInfo())
	require.NoError(t, err)
	require.Empty(t, fields)
	return e
}

// answerSection records the correct answer for every question in a section.
func answerSection(t *testing.T, e *Engine, section model.Section) {
	t.Helper()
	for _, q := range e.bank.Questions(section) {
		require.NoError(t, e.RecordAnswer(q.ID, q.CorrectAnswer))
	}
}

// walkToSectionEnd steps the cursor to the last question of the current
// section.
func walkToSectionEnd(t *testing.T, e *Engine) {
	t.Helper()
	n := len(e.bank.Questions(e.State().CurrentSection))
	for i := e.State().QuestionIndex; i < n-1; i++ {
		require.NoError(t, e.NextQuestion())
	}
}

func TestNewEngineStartsAtBasicInfo(t *testing.T) {
	e := newTestEngine(t, nil)
	state := e.State()

	assert.Equal(t, model.StepBasicInfo, state.CurrentStep)
	assert.Equal(t, SectionOrder[0], state.CurrentSection)
	assert.Equal(t, 0, state.QuestionIndex)
	assert.False(t, state.BasicInfoComplete)
	assert.Equal(t, 2700, state.RemainingSeconds)
	assert.Equal(t, "45:00", state.Clock)
	assert.Zero(t, state.PercentComplete)
}

func TestNavigationRejectedBeforeAssessment(t *testing.T) {
	e := newTestEngine(t, nil)

	assert.ErrorIs(t, e.NextQuestion(), ErrNotInAssessment)
	assert.ErrorIs(t, e.AdvanceSection(), ErrNotInAssessment)
	assert.ErrorIs(t, e.RecordAnswer("vs-1", "a"), ErrNotInAssessment)
	_, err := e.Submit()
	assert.ErrorIs(t, err, ErrNotInAssessment)
}

func TestCompleteBasicInfoRejectsInvalidForm(t *testing.T) {
	e := newTestEngine(t, nil)

	info := validInfo()
	info.Name = "  "
	info.Grade = 13
	fields, err := e.CompleteBasicInfo(info)
	require.NoError(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "grade")
	assert.Equal(t, model.StepBasicInfo, e.State().CurrentStep)
}

func TestCompleteBasicInfoEntersAssessment(t *testing.T) {
	e := startAssessment(t, nil)
	state := e.State()

	assert.Equal(t, model.StepAssessment, state.CurrentStep)
	assert.True(t, state.BasicInfoComplete)
}

func TestTimerIdleBeforeAssessmentStarts(t *testing.T) {
	e := newTestEngine(t, nil)

	assert.True(t, e.Tick())
	assert.True(t, e.Tick())
	assert.Equal(t, 2700, e.State().RemainingSeconds)
}

func TestTimerRunsDuringAssessment(t *testing.T) {
	e := startAssessment(t, nil)

	assert.True(t, e.Tick())
	assert.True(t, e.Tick())
	assert.Equal(t, 2698, e.State().RemainingSeconds)
}

func TestTimerKeepsRunningDuringFormReview(t *testing.T) {
	e := startAssessment(t, nil)
	require.True(t, e.Tick())

	// Stepping back to the form does not pause the countdown.
	require.NoError(t, e.RetreatSection())
	require.Equal(t, model.StepBasicInfo, e.State().CurrentStep)
	assert.True(t, e.Tick())
	assert.Equal(t, 2698, e.State().RemainingSeconds)

	// Re-entering resumes where the countdown left off.
	fields, err := e.CompleteBasicInfo(validInfo())
	require.NoError(t, err)
	require.Empty(t, fields)
	assert.Equal(t, 2698, e.State().RemainingSeconds)
}

func TestTimerHalfwayThroughBudget(t *testing.T) {
	e := startAssessment(t, nil)

	for i := 0; i < 1800; i++ {
		require.True(t, e.Tick())
	}

	state := e.State()
	assert.Equal(t, 900, state.RemainingSeconds)
	assert.Equal(t, "15:00", state.Clock)
	assert.False(t, state.IsComplete)
}

func TestTimerExpiry(t *testing.T) {
	e := NewEngine("sess-short", DefaultBank(), 3, nil)
	fields, err := e.CompleteBasicInfo(validInfo())
	require.NoError(t, err)
	require.Empty(t, fields)

	assert.True(t, e.Tick())  // 3 → 2
	assert.True(t, e.Tick())  // 2 → 1
	assert.False(t, e.Tick()) // 1 → 0, countdown done
	assert.Equal(t, 0, e.State().RemainingSeconds)
	assert.False(t, e.State().IsComplete)
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	e := startAssessment(t, nil)

	require.NoError(t, e.RecordAnswer("vs-1", "a"))
	require.NoError(t, e.RecordAnswer("vs-1", "c"))

	state := e.State()
	assert.Equal(t, "c", state.Answers[model.SectionVerbalSynonyms]["vs-1"])
	assert.Equal(t, 0, state.QuestionIndex, "recording an answer must not move the cursor")
}

func TestRecordAnswerAllowsOtherSections(t *testing.T) {
	e := startAssessment(t, nil)

	// The cursor is in the first section; edits to earlier review answers
	// land by question id regardless of position.
	require.NoError(t, e.RecordAnswer("re-3", "b"))
	assert.Equal(t, "b", e.State().Answers[model.SectionReasoning]["re-3"])
}

func TestRecordAnswerUnknownQuestion(t *testing.T) {
	e := startAssessment(t, nil)
	assert.ErrorIs(t, e.RecordAnswer("zz-9", "a"), ErrUnknownQuestion)
}

func TestQuestionNavigationBounds(t *testing.T) {
	e := startAssessment(t, nil)

	assert.ErrorIs(t, e.PrevQuestion(), ErrSectionBoundary)

	walkToSectionEnd(t, e)
	assert.ErrorIs(t, e.NextQuestion(), ErrSectionBoundary)

	require.NoError(t, e.PrevQuestion())
	assert.Equal(t, 3, e.State().QuestionIndex)
}

func TestAdvanceSectionOnlyFromLastQuestion(t *testing.T) {
	e := startAssessment(t, nil)
	assert.ErrorIs(t, e.AdvanceSection(), ErrNotLastQuestion)
}

func TestAdvanceSectionStampsCompleteness(t *testing.T) {
	e := startAssessment(t, nil)
	first := SectionOrder[0]

	answerSection(t, e, first)
	walkToSectionEnd(t, e)
	require.NoError(t, e.AdvanceSection())

	state := e.State()
	assert.Equal(t, SectionOrder[1], state.CurrentSection)
	assert.Equal(t, 0, state.QuestionIndex)
	assert.True(t, state.SectionProgress[first])
	assert.InDelta(t, 100.0/6.0, state.PercentComplete, 0.01)
}

func TestAdvanceSectionSnapshotGoesStale(t *testing.T) {
	e := startAssessment(t, nil)
	first := SectionOrder[0]

	// Leave one question unanswered: the stamp records incomplete.
	require.NoError(t, e.RecordAnswer("vs-1", "a"))
	walkToSectionEnd(t, e)
	require.NoError(t, e.AdvanceSection())
	assert.False(t, e.State().SectionProgress[first])

	// Go back and fill the gap. The stamp does not refresh on its own.
	require.NoError(t, e.RetreatSection())
	answerSection(t, e, first)
	assert.False(t, e.State().SectionProgress[first])

	// Only leaving the section again refreshes the flag.
	require.NoError(t, e.AdvanceSection())
	assert.True(t, e.State().SectionProgress[first])
}

func TestRetreatSectionLandsOnLastQuestion(t *testing.T) {
	e := startAssessment(t, nil)
	walkToSectionEnd(t, e)
	require.NoError(t, e.AdvanceSection())

	// Retreat is only reachable from the first question.
	require.NoError(t, e.NextQuestion())
	assert.ErrorIs(t, e.RetreatSection(), ErrNotFirstQuestion)
	require.NoError(t, e.PrevQuestion())

	require.NoError(t, e.RetreatSection())
	state := e.State()
	assert.Equal(t, SectionOrder[0], state.CurrentSection)
	assert.Equal(t, 4, state.QuestionIndex)
}

func TestRetreatFromFirstSectionReturnsToForm(t *testing.T) {
	e := startAssessment(t, nil)
	require.NoError(t, e.RetreatSection())

	state := e.State()
	assert.Equal(t, model.StepBasicInfo, state.CurrentStep)
	assert.True(t, state.BasicInfoComplete)
}

func TestJumpToSectionAccessibility(t *testing.T) {
	e := startAssessment(t, nil)

	// Ahead of the cursor and never completed: locked.
	assert.ErrorIs(t, e.JumpToSection(model.SectionNumerical), ErrSectionLocked)
	assert.ErrorIs(t, e.JumpToSection(model.Section("palmistry")), ErrUnknownSection)

	// Move two sections forward, then jump freely backwards.
	walkToSectionEnd(t, e)
	require.NoError(t, e.AdvanceSection())
	walkToSectionEnd(t, e)
	require.NoError(t, e.AdvanceSection())

	require.NoError(t, e.JumpToSection(SectionOrder[0]))
	state := e.State()
	assert.Equal(t, SectionOrder[0], state.CurrentSection)
	assert.Equal(t, 0, state.QuestionIndex)
}

func TestJumpToCompletedSectionAhead(t *testing.T) {
	e := startAssessment(t, nil)

	// Complete the first two sections so both carry a true stamp.
	for i := 0; i < 2; i++ {
		answerSection(t, e, SectionOrder[i])
		walkToSectionEnd(t, e)
		require.NoError(t, e.AdvanceSection())
	}

	// From the first section, the stamped second section is reachable
	// forward; the never-visited fourth is not.
	require.NoError(t, e.JumpToSection(SectionOrder[0]))
	assert.ErrorIs(t, e.JumpToSection(SectionOrder[3]), ErrSectionLocked)
	require.NoError(t, e.JumpToSection(SectionOrder[1]))
}

func TestSubmitOnlyFromLastQuestionOfLastSection(t *testing.T) {
	e := startAssessment(t, nil)

	_, err := e.Submit()
	assert.ErrorIs(t, err, ErrSubmitUnreachable)
}

func TestSubmitFinalizesSession(t *testing.T) {
	var got Submission
	calls := 0
	onSubmit := func(sub Submission) (string, error) {
		calls++
		got = sub
		return "result-42", nil
	}

	e := startAssessment(t, onSubmit)
	for i := range SectionOrder {
		answerSection(t, e, SectionOrder[i])
		walkToSectionEnd(t, e)
		if i < len(SectionOrder)-1 {
			require.NoError(t, e.AdvanceSection())
		}
	}

	resultID, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, "result-42", resultID)
	assert.Equal(t, 1, calls)

	state := e.State()
	assert.Equal(t, model.StepSubmitted, state.CurrentStep)
	assert.True(t, state.IsComplete)
	assert.Equal(t, 100.0, state.PercentComplete)

	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, validInfo().Name, got.BasicInfo.Name)
	for _, section := range SectionOrder {
		assert.Equal(t, 5, got.RawScores[AbilityFor(section)], "all answers were correct")
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	calls := 0
	onSubmit := func(Submission) (string, error) {
		calls++
		return "result-42", nil
	}

	e := startAssessment(t, onSubmit)
	for i := range SectionOrder {
		walkToSectionEnd(t, e)
		if i < len(SectionOrder)-1 {
			require.NoError(t, e.AdvanceSection())
		}
	}

	first, err := e.Submit()
	require.NoError(t, err)
	second, err := e.Submit()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestSubmitStampsLastSectionUnconditionally(t *testing.T) {
	e := startAssessment(t, func(Submission) (string, error) { return "r", nil })
	for i := range SectionOrder {
		walkToSectionEnd(t, e)
		if i < len(SectionOrder)-1 {
			require.NoError(t, e.AdvanceSection())
		}
	}

	// Nothing answered in the last section, it is stamped complete anyway.
	_, err := e.Submit()
	require.NoError(t, err)
	assert.True(t, e.State().SectionProgress[SectionOrder[len(SectionOrder)-1]])
}

func TestSubmitAllowedAfterTimerExpiry(t *testing.T) {
	e := NewEngine("sess-short", DefaultBank(), 1, func(Submission) (string, error) { return "r", nil })
	fields, err := e.CompleteBasicInfo(validInfo())
	require.NoError(t, err)
	require.Empty(t, fields)

	assert.False(t, e.Tick())
	require.Equal(t, 0, e.State().RemainingSeconds)

	for i := range SectionOrder {
		walkToSectionEnd(t, e)
		if i < len(SectionOrder)-1 {
			require.NoError(t, e.AdvanceSection())
		}
	}

	_, err = e.Submit()
	assert.NoError(t, err)
}

func TestEverythingRejectedAfterSubmit(t *testing.T) {
	e := startAssessment(t, func(Submission) (string, error) { return "r", nil })
	for i := range SectionOrder {
		walkToSectionEnd(t, e)
		if i < len(SectionOrder)-1 {
			require.NoError(t, e.AdvanceSection())
		}
	}
	_, err := e.Submit()
	require.NoError(t, err)

	assert.ErrorIs(t, e.RecordAnswer("vs-1", "a"), ErrAlreadySubmitted)
	assert.ErrorIs(t, e.NextQuestion(), ErrAlreadySubmitted)
	assert.ErrorIs(t, e.JumpToSection(SectionOrder[0]), ErrAlreadySubmitted)
	_, err = e.CompleteBasicInfo(validInfo())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.False(t, e.Tick())
}

func TestStateSnapshotIsDetached(t *testing.T) {
	e := startAssessment(t, nil)
	require.NoError(t, e.RecordAnswer("vs-1", "a"))

	state := e.State()
	state.Answers[model.SectionVerbalSynonyms]["vs-1"] = "d"
	state.SectionProgress[model.SectionVerbalSynonyms] = true

	fresh := e.State()
	assert.Equal(t, "a", fresh.Answers[model.SectionVerbalSynonyms]["vs-1"])
	assert.False(t, fresh.SectionProgress[model.SectionVerbalSynonyms])
}
