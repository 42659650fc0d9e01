package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"careerpath-agent/internal/models"
)

// Advisor is the AI gateway contract the wizard depends on
type Advisor interface {
	ExtractProfile(ctx context.Context, resumeBase64, mimeType, targetJobTitle, targetCountry string) (models.UserProfile, error)
	GenerateAdvice(ctx context.Context, profile models.UserProfile, targetJobTitle, targetCountry string) (models.CareerAdvice, error)
}

// ErrBusy is returned when a submission arrives while an AI call for the
// same step is still outstanding
var ErrBusy = errors.New("an AI call is already in progress")

// ValidationError reports missing or invalid user input detected before
// any AI call is issued
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Snapshot is a copy of the session state handed to the step views
type Snapshot struct {
	SessionID string
	Step      models.Step
	Busy      bool
	Criteria  *models.JobSearchCriteria
	Profile   models.UserProfile
	Advice    *models.CareerAdvice
}

// Wizard owns the single in-memory session and orchestrates the three
// steps: Upload, Refine, Results. It decides when to call the advisor
// versus reuse cached results, and never commits partial state on a
// failed call.
type Wizard struct {
	advisor Advisor

	mu         sync.Mutex
	sessionID  string
	step       models.Step
	busy       bool
	generation uint64
	criteria   *models.JobSearchCriteria
	profile    models.UserProfile
	advice     *models.CareerAdvice
}

// New creates a wizard in the Upload step with an empty session
func New(advisor Advisor) *Wizard {
	return &Wizard{
		advisor:   advisor,
		sessionID: uuid.NewString(),
		step:      models.StepUpload,
		profile:   models.EmptyProfile(),
	}
}

// Snapshot returns a copy of the session state. Profile lists are deep
// copied so views cannot mutate the session.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		SessionID: w.sessionID,
		Step:      w.step,
		Busy:      w.busy,
		Profile:   w.profile.Clone(),
	}
	if w.criteria != nil {
		c := *w.criteria
		snap.Criteria = &c
	}
	if w.advice != nil {
		a := w.advice.Normalize()
		snap.Advice = &a
	}
	return snap
}

// SubmitCriteria handles the Upload step submission. If the criteria are
// field-wise identical to the ones already held, the extraction call is
// skipped and the previously extracted profile is reused. Otherwise the
// new criteria are stored and extraction runs; on failure the wizard
// stays in Upload with no profile committed.
func (w *Wizard) SubmitCriteria(ctx context.Context, criteria models.JobSearchCriteria) error {
	if err := validateCriteria(criteria); err != nil {
		return err
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.criteria != nil && w.criteria.Equal(criteria) {
		// Identical submission: reuse the extracted profile, skip the call.
		log.Printf("criteria unchanged, skipping extraction for session %s", w.sessionID)
		w.step = models.StepRefine
		w.mu.Unlock()
		return nil
	}
	w.busy = true
	w.criteria = &criteria
	generation := w.generation
	w.mu.Unlock()

	profile, err := w.advisor.ExtractProfile(ctx, criteria.ResumeFileBase64, criteria.ResumeMimeType, criteria.TargetJobTitle, criteria.TargetCountry)

	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation {
		// The session was restarted while the call was outstanding;
		// discard the stale result either way.
		log.Printf("discarding stale extraction result for session %s", w.sessionID)
		return nil
	}
	w.busy = false

	if err != nil {
		return err
	}

	w.profile = profile
	w.step = models.StepRefine
	return nil
}

// SubmitProfile handles the Refine step submission. The edited profile
// is stored before the advice call, so a failed call keeps the edits.
// Advice generation is never memoized: the edits are assumed to change
// on every submission.
func (w *Wizard) SubmitProfile(ctx context.Context, profile models.UserProfile) error {
	w.mu.Lock()
	if w.step != models.StepRefine {
		w.mu.Unlock()
		return &ValidationError{Field: "step", Reason: fmt.Sprintf("profile can only be submitted from the refine step, current step is %s", w.step)}
	}
	if w.criteria == nil {
		w.mu.Unlock()
		return &ValidationError{Field: "criteria", Reason: "no search criteria held; upload a resume first"}
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true
	w.profile = profile.Normalize().Clone()
	targetJobTitle := w.criteria.TargetJobTitle
	targetCountry := w.criteria.TargetCountry
	generation := w.generation
	w.mu.Unlock()

	advice, err := w.advisor.GenerateAdvice(ctx, profile.Normalize(), targetJobTitle, targetCountry)

	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation {
		log.Printf("discarding stale advice result for session %s", w.sessionID)
		return nil
	}
	w.busy = false

	if err != nil {
		return err
	}

	w.advice = &advice
	w.step = models.StepResults
	return nil
}

// Back navigates one step backwards without discarding anything, so
// returning to Upload shows the held criteria and a re-submission can
// take the memoized skip.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case models.StepResults:
		w.step = models.StepRefine
	case models.StepRefine:
		w.step = models.StepUpload
	}
}

// Restart discards criteria, profile and advice, bumps the generation so
// results from in-flight calls are ignored, and returns to Upload under
// a fresh session ID.
func (w *Wizard) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++
	w.sessionID = uuid.NewString()
	w.step = models.StepUpload
	w.busy = false
	w.criteria = nil
	w.profile = models.EmptyProfile()
	w.advice = nil
}

// validateCriteria checks required user input before any AI call
func validateCriteria(criteria models.JobSearchCriteria) error {
	if criteria.ResumeFileBase64 == "" {
		return &ValidationError{Field: "resume", Reason: "no resume file selected"}
	}
	if criteria.TargetJobTitle == "" {
		return &ValidationError{Field: "targetJobTitle", Reason: "target job title is empty"}
	}
	if criteria.TargetCountry == "" {
		return &ValidationError{Field: "targetCountry", Reason: "target country is empty"}
	}
	if !models.IsAllowedMimeType(criteria.ResumeMimeType) {
		return &ValidationError{Field: "resumeMimeType", Reason: fmt.Sprintf("unsupported file type %q", criteria.ResumeMimeType)}
	}
	return nil
}
