package assessment

import (
	"errors"
	"sync"

	"github.com/dishalabs/disha-gateway/internal/model"
	"github.com/dishalabs/disha-gateway/internal/progress"
)

// Sentinel errors for rejected transitions.
var (
	ErrAlreadySubmitted  = errors.New("assessment already submitted")
	ErrNotInAssessment   = errors.New("not in the assessment step")
	ErrSectionBoundary   = errors.New("no question in that direction within the section")
	ErrNotLastQuestion   = errors.New("section can only be advanced from its last question")
	ErrNotFirstQuestion  = errors.New("section can only be retreated from its first question")
	ErrNoNextSection     = errors.New("already in the last section")
	ErrSectionLocked     = errors.New("section is not reachable yet")
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownQuestion   = errors.New("unknown question id")
	ErrSubmitUnreachable = errors.New("submit is only reachable from the last question of the last section")
)

// Submission is the finalized answer set handed to the submit callback.
type Submission struct {
	SessionID string
	BasicInfo model.BasicInfo
	Answers   map[model.Section]model.AnswerSet
	RawScores map[model.Ability]int
}

// SubmitFunc receives the finalized submission and returns the identifier
// of the result session that will carry the analysis. The engine performs
// no network I/O itself. The callback must not call back into the engine.
type SubmitFunc func(Submission) (string, error)

// Engine drives one assessment session: step transitions, answer
// recording, navigation gating and the countdown. All exported methods are
// serialized by an internal mutex, so transitions never interleave.
type Engine struct {
	mu       sync.Mutex
	id       string
	bank     Bank
	budget   int
	onSubmit SubmitFunc

	step              model.Step
	sectionIdx        int
	questionIdx       int
	basicInfo         model.BasicInfo
	basicInfoComplete bool
	answers           map[model.Section]model.AnswerSet
	sectionProgress   map[model.Section]bool
	isComplete        bool
	remaining         int
	timerStarted      bool
	resultID          string
}

// NewEngine creates an engine positioned at the BasicInfo step with an
// untouched answer set and a full time budget.
func NewEngine(id string, bank Bank, budgetSeconds int, onSubmit SubmitFunc) *Engine {
	answers := make(map[model.Section]model.AnswerSet, len(SectionOrder))
	flags := make(map[model.Section]bool, len(SectionOrder))
	for _, s := range SectionOrder {
		answers[s] = model.AnswerSet{}
		flags[s] = false
	}

	return &Engine{
		id:              id,
		bank:            bank,
		budget:          budgetSeconds,
		onSubmit:        onSubmit,
		step:            model.StepBasicInfo,
		answers:         answers,
		sectionProgress: flags,
		remaining:       budgetSeconds,
	}
}

// ID returns the session identifier.
func (e *Engine) ID() string { return e.id }

// CompleteBasicInfo validates the pre-test profile and, when valid, enters
// the Assessment step. Returns a non-empty field→message map when the
// transition is rejected. The countdown starts on the first successful
// entry and keeps running if the user later steps back to review the form.
func (e *Engine) CompleteBasicInfo(info model.BasicInfo) (map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.step == model.StepSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if fields := ValidateBasicInfo(info); len(fields) > 0 {
		return fields, nil
	}

	e.basicInfo = info
	e.basicInfoComplete = true
	e.step = model.StepAssessment
	e.timerStarted = true
	return nil, nil
}

// RecordAnswer stores the selected option for a question, overwriting any
// prior value (last write wins). It never moves the cursor and is allowed
// for any question in the bank, which supports backward review edits.
func (e *Engine) RecordAnswer(questionID, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}

	_, section, ok := e.bank.Find(questionID)
	if !ok {
		return ErrUnknownQuestion
	}

	e.answers[section][questionID] = value
	return nil
}

// NextQuestion moves one question forward within the current section.
func (e *Engine) NextQuestion() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}
	if e.questionIdx >= len(e.currentQuestions())-1 {
		return ErrSectionBoundary
	}
	e.questionIdx++
	return nil
}

// PrevQuestion moves one question backward within the current section.
func (e *Engine) PrevQuestion() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}
	if e.questionIdx == 0 {
		return ErrSectionBoundary
	}
	e.questionIdx--
	return nil
}

// AdvanceSection moves to the first question of the next section. Allowed
// only from the last question of the current section. The completion flag
// for the section being left is stamped with a completeness snapshot taken
// at this moment; later edits through backward review do not refresh it.
func (e *Engine) AdvanceSection() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}
	if e.questionIdx != len(e.currentQuestions())-1 {
		return ErrNotLastQuestion
	}
	if e.sectionIdx >= len(SectionOrder)-1 {
		return ErrNoNextSection
	}

	current := SectionOrder[e.sectionIdx]
	e.sectionProgress[current] = e.sectionAnswered(current)
	e.sectionIdx++
	e.questionIdx = 0
	return nil
}

// RetreatSection moves to the previous section without any completeness
// requirement, landing on its last question so backward review resumes
// where the user left off. From the first section it returns to the
// BasicInfo step.
func (e *Engine) RetreatSection() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}
	if e.questionIdx != 0 {
		return ErrNotFirstQuestion
	}

	if e.sectionIdx == 0 {
		e.step = model.StepBasicInfo
		return nil
	}

	e.sectionIdx--
	e.questionIdx = len(e.currentQuestions()) - 1
	return nil
}

// JumpToSection moves directly to the first question of the target
// section. A section is reachable if its index is at or before the current
// one, or it has already been marked complete: free backward review, no
// skipping ahead.
func (e *Engine) JumpToSection(target model.Section) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAssessment(); err != nil {
		return err
	}

	idx := SectionIndex(target)
	if idx < 0 {
		return ErrUnknownSection
	}
	if idx > e.sectionIdx && !e.sectionProgress[target] {
		return ErrSectionLocked
	}

	e.sectionIdx = idx
	e.questionIdx = 0
	return nil
}

// Submit finalizes the session. Only reachable from the last question of
// the last section; a second call is a no-op returning the same result
// session id. Whatever is answered at this moment is what gets submitted;
// an expired countdown does not block the attempt.
func (e *Engine) Submit() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isComplete {
		return e.resultID, nil
	}
	if err := e.requireAssessment(); err != nil {
		return "", err
	}
	if e.sectionIdx != len(SectionOrder)-1 || e.questionIdx != len(e.currentQuestions())-1 {
		return "", ErrSubmitUnreachable
	}

	last := SectionOrder[e.sectionIdx]
	e.sectionProgress[last] = true
	e.isComplete = true
	e.step = model.StepSubmitted

	if e.onSubmit == nil {
		return "", nil
	}

	resultID, err := e.onSubmit(Submission{
		SessionID: e.id,
		BasicInfo: e.basicInfo,
		Answers:   copyAnswers(e.answers),
		RawScores: e.rawScores(),
	})
	if err != nil {
		return "", err
	}
	e.resultID = resultID
	return resultID, nil
}

// Tick advances the countdown by one second. It reports whether the
// countdown is still running, so the owning ticker loop knows when to
// stop. Before the Assessment step is first entered the countdown has not
// started and Tick is a keep-alive no-op.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isComplete {
		return false
	}
	if !e.timerStarted {
		return true
	}
	if e.remaining <= 0 {
		return false
	}

	e.remaining--
	return e.remaining > 0
}

// State returns a deep-copied snapshot of the session. Callers can never
// mutate engine state through it.
func (e *Engine) State() model.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	flags := make([]bool, len(SectionOrder))
	progressCopy := make(map[model.Section]bool, len(SectionOrder))
	for i, s := range SectionOrder {
		flags[i] = e.sectionProgress[s]
		progressCopy[s] = e.sectionProgress[s]
	}

	return model.SessionState{
		SessionID:         e.id,
		CurrentStep:       e.step,
		CurrentSection:    SectionOrder[e.sectionIdx],
		QuestionIndex:     e.questionIdx,
		Answers:           copyAnswers(e.answers),
		BasicInfoComplete: e.basicInfoComplete,
		SectionProgress:   progressCopy,
		IsComplete:        e.isComplete,
		RemainingSeconds:  e.remaining,
		PercentComplete:   progress.PercentComplete(flags),
		Clock:             progress.FormatClock(e.remaining),
	}
}

// SectionPaper is one section of the test as served to the client, without
// correct answers.
type SectionPaper struct {
	Section   model.Section             `json:"section"`
	Ability   model.Ability             `json:"ability"`
	Questions []model.QuestionForClient `json:"questions"`
}

// Paper returns the full test paper in section order.
func (e *Engine) Paper() []SectionPaper {
	papers := make([]SectionPaper, 0, len(SectionOrder))
	for _, s := range SectionOrder {
		questions := e.bank.Questions(s)
		qs := make([]model.QuestionForClient, 0, len(questions))
		for _, q := range questions {
			qs = append(qs, q.ForClient())
		}
		papers = append(papers, SectionPaper{Section: s, Ability: AbilityFor(s), Questions: qs})
	}
	return papers
}

// ─── Internal helpers (callers hold e.mu) ───────────────────────────

func (e *Engine) requireAssessment() error {
	switch e.step {
	case model.StepAssessment:
		return nil
	case model.StepSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrNotInAssessment
	}
}

func (e *Engine) currentQuestions() []model.Question {
	return e.bank.Questions(SectionOrder[e.sectionIdx])
}

// sectionAnswered reports whether every question in the section has a
// recorded answer right now.
func (e *Engine) sectionAnswered(section model.Section) bool {
	answered := e.answers[section]
	for _, q := range e.bank.Questions(section) {
		if _, ok := answered[q.ID]; !ok {
			return false
		}
	}
	return true
}

// rawScores counts correct answers per DBDA ability.
func (e *Engine) rawScores() map[model.Ability]int {
	scores := make(map[model.Ability]int, len(SectionOrder))
	for _, s := range SectionOrder {
		ability := AbilityFor(s)
		answered := e.answers[s]
		for _, q := range e.bank.Questions(s) {
			if answered[q.ID] == q.CorrectAnswer {
				scores[ability]++
			}
		}
		if _, ok := scores[ability]; !ok {
			scores[ability] = 0
		}
	}
	return scores
}

func copyAnswers(src map[model.Section]model.AnswerSet) map[model.Section]model.AnswerSet {
	out := make(map[model.Section]model.AnswerSet, len(src))
	for section, set := range src {
		setCopy := make(model.AnswerSet, len(set))
		for k, v := range set {
			setCopy[k] = v
		}
		out[section] = setCopy
	}
	return out
}
