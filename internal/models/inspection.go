package models

import (
	"time"

	"gorm.io/datatypes"
)

// Inspection response states.
const (
	StateConformant    = "conformant"
	StateNonCompliant  = "non_compliant"
	StateUnverified    = "unverified"
	StateNotApplicable = "not_applicable"
)

// Participant attended an inspection visit.
type Participant struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Company  string `json:"company,omitempty"`
}

// InspectionReport is a finalized technical inspection.
type InspectionReport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"size:36;index;not null" json:"created_by"`

	ClientID      *uint     `gorm:"index" json:"client_id"`
	ClientName    string    `gorm:"size:255;not null" json:"client_name"`
	Plant         string    `gorm:"size:255" json:"plant"`
	MachineSerial string    `gorm:"size:100" json:"machine_serial"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	VisitPurpose  string    `gorm:"type:text" json:"visit_purpose,omitempty"`

	OpeningMeeting bool `json:"opening_meeting"`
	ClosingMeeting bool `json:"closing_meeting"`

	Participants datatypes.JSONSlice[Participant] `json:"participants"`

	FinalComments  string `gorm:"type:text" json:"final_comments"`
	Efficiencies   string `gorm:"type:text" json:"efficiencies,omitempty"`
	Losses         string `gorm:"type:text" json:"losses,omitempty"`
	CustomerReview string `gorm:"type:text" json:"customer_review,omitempty"`

	// Blob keys of the two signature images.
	InspectorSignature string `gorm:"size:255" json:"inspector_signature"`
	ClientSignature    string `gorm:"size:255" json:"client_signature"`

	Responses   []InspectionResponse `gorm:"foreignKey:ReportID" json:"responses,omitempty"`
	ActionItems []ActionItem         `gorm:"foreignKey:ReportID" json:"action_items,omitempty"`
}

// InspectionResponse is the answer to one catalog item.
type InspectionResponse struct {
	ID       uint                        `gorm:"primaryKey" json:"id"`
	ReportID uint                        `gorm:"index;not null" json:"report_id"`
	Section  string                      `gorm:"size:100" json:"section"`
	ItemID   string                      `gorm:"size:50;not null" json:"item_id"`
	State    string                      `gorm:"size:20;not null" json:"state"`
	Comment  string                      `gorm:"type:text" json:"comment,omitempty"`
	Evidence datatypes.JSONSlice[string] `json:"evidence"` // blob keys
}

// ActionItem is a corrective action agreed during the visit.
type ActionItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ReportID    uint       `gorm:"index;not null" json:"report_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Type        string     `gorm:"size:50" json:"type,omitempty"`
	Owner       string     `gorm:"size:255;not null" json:"owner"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Criticality string     `gorm:"size:20" json:"criticality,omitempty"`
	WorkOrder   string     `gorm:"size:100" json:"work_order,omitempty"`
}

// InspectionDraft is the caller's in-progress wizard state. One per user.
type InspectionDraft struct {
	UserID    string         `gorm:"primaryKey;size:36" json:"user_id"`
	Payload   datatypes.JSON `json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Blob holds an uploaded image when no object store is configured.
type Blob struct {
	Key         string    `gorm:"primaryKey;size:255" json:"key"`
	ContentType string    `gorm:"size:100;not null" json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
