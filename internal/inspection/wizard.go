package inspection

import "errors"

var ErrUnknownStep = errors.New("unknown_step")

// Wizard tracks the current step of a report being filled in. Moving forward
// requires every step being left to validate; moving back is always allowed.
type Wizard struct {
	report  *Report
	catalog Catalog
	current StepID
}

func NewWizard(r *Report, cat Catalog) *Wizard {
	return &Wizard{report: r, catalog: cat, current: StepGeneral}
}

func (w *Wizard) Current() Step {
	s, _ := StepByID(w.current)
	return s
}

// Next advances one step when the current step validates.
func (w *Wizard) Next() error {
	s := w.Current()
	if v := s.Validate(w.report, w.catalog); len(v) > 0 {
		return &StepError{Step: s, Violations: v}
	}
	if w.current < LastStep {
		w.current++
	}
	return nil
}

func (w *Wizard) Back() {
	if w.current > StepGeneral {
		w.current--
	}
}

// GoTo jumps to target. Forward jumps stop at the first failing step in
// between, which becomes the current step.
func (w *Wizard) GoTo(target StepID) error {
	if _, ok := StepByID(target); !ok {
		return ErrUnknownStep
	}
	for w.current < target {
		if err := w.Next(); err != nil {
			return err
		}
	}
	w.current = target
	return nil
}
