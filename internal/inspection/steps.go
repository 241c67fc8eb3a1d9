package inspection

import (
	"fmt"
	"strings"

	"github.com/sig-servicios/cotizador/internal/blobstore"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/validation"
)

// StepID numbers wizard steps from 1.
type StepID int

const (
	StepGeneral StepID = iota + 1
	StepChecklist
	StepParticipants
	StepClosing
	StepActionPlan
	StepSignatures
)

// Step describes one wizard page and the rule that must hold to leave it.
type Step struct {
	ID       StepID
	Key      string
	Title    string
	Validate func(r *Report, cat Catalog) validation.Violations
}

// Steps is the wizard sequence.
var Steps = []Step{
	{ID: StepGeneral, Key: "general", Title: "Información general", Validate: validateGeneral},
	{ID: StepChecklist, Key: "checklist", Title: "Inspección", Validate: validateChecklist},
	{ID: StepParticipants, Key: "participants", Title: "Participantes", Validate: func(*Report, Catalog) validation.Violations { return nil }},
	{ID: StepClosing, Key: "closing", Title: "Cierre", Validate: validateClosing},
	{ID: StepActionPlan, Key: "action_plan", Title: "Plan de acción", Validate: validateActionPlan},
	{ID: StepSignatures, Key: "signatures", Title: "Firmas", Validate: validateSignatures},
}

// LastStep is the final wizard step.
const LastStep = StepSignatures

// StepByID returns the descriptor for id.
func StepByID(id StepID) (Step, bool) {
	if id < StepGeneral || id > LastStep {
		return Step{}, false
	}
	return Steps[id-1], true
}

// StepError reports the first step whose rule failed.
type StepError struct {
	Step       Step
	Violations validation.Violations
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) incomplete", e.Step.ID, e.Step.Key)
}

// ValidateThrough checks steps 1..upTo in order and stops at the first failure.
func ValidateThrough(r *Report, cat Catalog, upTo StepID) error {
	for _, s := range Steps {
		if s.ID > upTo {
			break
		}
		if v := s.Validate(r, cat); len(v) > 0 {
			return &StepError{Step: s, Violations: v}
		}
	}
	return nil
}

func validateGeneral(r *Report, _ Catalog) validation.Violations {
	v := validation.Violations{}
	g := r.General
	validation.Required("client_name", g.ClientName, v)
	validation.Required("plant", g.Plant, v)
	validation.Required("machine_serial", g.MachineSerial, v)
	start, okStart := ParseDate(g.StartDate)
	end, okEnd := ParseDate(g.EndDate)
	if !okStart {
		v["start_date"] = "invalid_date"
	}
	if !okEnd {
		v["end_date"] = "invalid_date"
	}
	if okStart && okEnd && end.Before(start) {
		v["end_date"] = "before_start_date"
	}
	return v
}

// validateChecklist requires every catalog item answered with a known state;
// non-compliant answers also need a comment and at least one evidence image.
// Evidence entries must be inline images or stored image keys.
func validateChecklist(r *Report, cat Catalog) validation.Violations {
	v := validation.Violations{}
	for _, sec := range cat {
		for _, it := range sec.Items {
			key := "responses." + it.ID
			resp, ok := r.ResponseFor(it.ID)
			if !ok || resp.State == "" {
				v[key] = "unanswered"
				continue
			}
			validation.OneOf(key+".state", resp.State, States, v)
			images := 0
			for i, ev := range resp.Evidence {
				switch {
				case strings.TrimSpace(ev) == "":
				case blobstore.IsImageRef(ev):
					images++
				default:
					v[fmt.Sprintf("%s.evidence[%d]", key, i)] = "invalid_image"
				}
			}
			if resp.State != models.StateNonCompliant {
				continue
			}
			validation.Required(key+".comment", resp.Comment, v)
			if images == 0 {
				v[key+".evidence"] = "required"
			}
		}
	}
	return v
}

func validateClosing(r *Report, _ Catalog) validation.Violations {
	v := validation.Violations{}
	validation.Required("final_comments", r.Closing.FinalComments, v)
	return v
}

func validateActionPlan(r *Report, _ Catalog) validation.Violations {
	v := validation.Violations{}
	if r.HasNonCompliant() && len(r.ActionItems) == 0 {
		v["action_items"] = "required"
	}
	for i, a := range r.ActionItems {
		validation.Required(fmt.Sprintf("action_items[%d].description", i), a.Description, v)
		validation.Required(fmt.Sprintf("action_items[%d].owner", i), a.Owner, v)
		if strings.TrimSpace(a.DueDate) != "" {
			if _, ok := ParseDate(a.DueDate); !ok {
				v[fmt.Sprintf("action_items[%d].due_date", i)] = "invalid_date"
			}
		}
	}
	return v
}

// validateSignatures only checks that provided signatures are images or stored keys.
func validateSignatures(r *Report, _ Catalog) validation.Violations {
	v := validation.Violations{}
	for field, sig := range map[string]string{"signatures.inspector": r.Signatures.Inspector, "signatures.client": r.Signatures.Client} {
		sig = strings.TrimSpace(sig)
		if sig != "" && !blobstore.IsImageRef(sig) {
			v[field] = "invalid_image"
		}
	}
	return v
}
