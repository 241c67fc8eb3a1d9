package inspection

import (
	"errors"
	"testing"

	"github.com/sig-servicios/cotizador/internal/models"
)

func smallCatalog() Catalog {
	return Catalog{{ID: "s", Title: "S", Items: []Item{{ID: "a"}, {ID: "b"}}}}
}

func validGeneral() General {
	return General{ClientName: "Acme", Plant: "Norte", MachineSerial: "X-1", StartDate: "2024-05-01", EndDate: "2024-05-02"}
}

func TestGeneralRequiresOrderedDates(t *testing.T) {
	r := &Report{General: validGeneral()}
	r.General.EndDate = "2024-04-30"
	err := ValidateThrough(r, smallCatalog(), StepGeneral)
	var se *StepError
	if !errors.As(err, &se) || se.Step.ID != StepGeneral || se.Violations["end_date"] != "before_start_date" {
		t.Fatalf("expected end_date violation, got %v", err)
	}
	r.General.EndDate = "2024-05-01"
	if err := ValidateThrough(r, smallCatalog(), StepGeneral); err != nil {
		t.Fatalf("same-day range must pass: %v", err)
	}
}

func TestNonCompliantNeedsCommentAndEvidence(t *testing.T) {
	r := &Report{
		General: validGeneral(),
		Responses: []Response{
			{ItemID: "a", State: models.StateConformant},
			{ItemID: "b", State: models.StateNonCompliant},
		},
	}
	w := NewWizard(r, smallCatalog())
	if err := w.Next(); err != nil {
		t.Fatalf("general: %v", err)
	}
	err := w.Next()
	var se *StepError
	if !errors.As(err, &se) || se.Step.ID != StepChecklist {
		t.Fatalf("expected checklist to block, got %v", err)
	}
	if se.Violations["responses.b.comment"] != "required" || se.Violations["responses.b.evidence"] != "required" {
		t.Fatalf("violations = %v", se.Violations)
	}
	if w.Current().ID != StepChecklist {
		t.Fatalf("wizard moved to %d", w.Current().ID)
	}

	r.Responses[1].Comment = "Fuga en válvula"
	r.Responses[1].Evidence = []string{"not-an-image"}
	err = w.Next()
	if !errors.As(err, &se) || se.Violations["responses.b.evidence"] != "required" || se.Violations["responses.b.evidence[0]"] != "invalid_image" {
		t.Fatalf("plain text must not count as evidence, got %v", err)
	}

	r.Responses[1].Evidence = []string{"data:image/png;base64,AAAA"}
	if err := w.Next(); err != nil {
		t.Fatalf("expected checklist to pass: %v", err)
	}
	if w.Current().ID != StepParticipants {
		t.Fatalf("current = %d", w.Current().ID)
	}
}

func TestChecklistRequiresEveryItem(t *testing.T) {
	r := &Report{Responses: []Response{{ItemID: "a", State: "maybe"}}}
	v := validateChecklist(r, smallCatalog())
	if v["responses.b"] != "unanswered" || v["responses.a.state"] != "invalid_value" {
		t.Fatalf("violations = %v", v)
	}
}

func TestActionPlanRequiredForFindings(t *testing.T) {
	r := &Report{Responses: []Response{{ItemID: "a", State: models.StateNonCompliant}}}
	if v := validateActionPlan(r, nil); v["action_items"] != "required" {
		t.Fatalf("violations = %v", v)
	}
	r.ActionItems = []ActionItem{{Description: "Cambiar sello"}}
	if v := validateActionPlan(r, nil); v["action_items[0].owner"] != "required" {
		t.Fatalf("violations = %v", v)
	}
	r.ActionItems[0].Owner = "Mantenimiento"
	if v := validateActionPlan(r, nil); len(v) != 0 {
		t.Fatalf("violations = %v", v)
	}
	clean := &Report{Responses: []Response{{ItemID: "a", State: models.StateConformant}}}
	if v := validateActionPlan(clean, nil); len(v) != 0 {
		t.Fatalf("no findings should need no actions: %v", v)
	}
}

func TestWizardNavigation(t *testing.T) {
	r := &Report{General: validGeneral()}
	w := NewWizard(r, smallCatalog())
	w.Back()
	if w.Current().ID != StepGeneral {
		t.Fatal("back from first step must stay")
	}
	err := w.GoTo(StepClosing)
	var se *StepError
	if !errors.As(err, &se) || se.Step.ID != StepChecklist || w.Current().ID != StepChecklist {
		t.Fatalf("expected to stop at checklist, got %v at %d", err, w.Current().ID)
	}
	if err := w.GoTo(StepGeneral); err != nil || w.Current().ID != StepGeneral {
		t.Fatalf("backward jump: %v", err)
	}
	if err := w.GoTo(StepID(9)); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestDefaultCatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	cat := DefaultCatalog()
	for _, s := range cat {
		for _, it := range s.Items {
			if seen[it.ID] {
				t.Fatalf("duplicate item id %s", it.ID)
			}
			seen[it.ID] = true
			if cat.SectionOf(it.ID) != s.ID {
				t.Fatalf("SectionOf(%s) = %q", it.ID, cat.SectionOf(it.ID))
			}
		}
	}
	if len(seen) != cat.ItemCount() {
		t.Fatal("ItemCount mismatch")
	}
}

func TestSignaturesMustBeImages(t *testing.T) {
	r := &Report{Signatures: Signatures{Inspector: "Juan Pérez", Client: "data:image/png;base64,AAAA"}}
	v := validateSignatures(r, nil)
	if v["signatures.inspector"] != "invalid_image" {
		t.Fatalf("violations = %v", v)
	}
	if _, ok := v["signatures.client"]; ok {
		t.Fatalf("inline image rejected: %v", v)
	}
}
