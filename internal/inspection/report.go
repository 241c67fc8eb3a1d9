// Package inspection models the technical inspection report wizard and the
// per-step rules that gate moving forward.
package inspection

import (
	"strings"
	"time"

	"github.com/sig-servicios/cotizador/internal/models"
)

// States a checklist response may take.
var States = []string{
	models.StateConformant,
	models.StateNonCompliant,
	models.StateUnverified,
	models.StateNotApplicable,
}

// Report is the wizard payload. Evidence and signatures hold either image
// data URLs or keys of already stored images.
type Report struct {
	General      General              `json:"general"`
	Responses    []Response           `json:"responses"`
	Participants []models.Participant `json:"participants"`
	Closing      Closing              `json:"closing"`
	ActionItems  []ActionItem         `json:"action_items"`
	Signatures   Signatures           `json:"signatures"`
}

type General struct {
	ClientID       models.FlexibleID `json:"client_id"`
	ClientName     string            `json:"client_name"`
	Plant          string            `json:"plant"`
	MachineSerial  string            `json:"machine_serial"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	VisitPurpose   string            `json:"visit_purpose"`
	OpeningMeeting bool              `json:"opening_meeting"`
	ClosingMeeting bool              `json:"closing_meeting"`
}

type Response struct {
	ItemID   string   `json:"item_id"`
	State    string   `json:"state"`
	Comment  string   `json:"comment"`
	Evidence []string `json:"evidence"`
}

type Closing struct {
	FinalComments  string `json:"final_comments"`
	Efficiencies   string `json:"efficiencies"`
	Losses         string `json:"losses"`
	CustomerReview string `json:"customer_review"`
}

type ActionItem struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Owner       string `json:"owner"`
	DueDate     string `json:"due_date"`
	Criticality string `json:"criticality"`
	WorkOrder   string `json:"work_order"`
}

type Signatures struct {
	Inspector string `json:"inspector"`
	Client    string `json:"client"`
}

// ResponseFor returns the answer recorded for itemID.
func (r *Report) ResponseFor(itemID string) (Response, bool) {
	for _, resp := range r.Responses {
		if resp.ItemID == itemID {
			return resp, true
		}
	}
	return Response{}, false
}

// HasNonCompliant reports whether any response is non-compliant.
func (r *Report) HasNonCompliant() bool {
	for _, resp := range r.Responses {
		if resp.State == models.StateNonCompliant {
			return true
		}
	}
	return false
}

// StateCounts tallies responses by state.
func (r *Report) StateCounts() map[string]int {
	counts := make(map[string]int, len(States))
	for _, s := range States {
		counts[s] = 0
	}
	for _, resp := range r.Responses {
		counts[resp.State]++
	}
	return counts
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
