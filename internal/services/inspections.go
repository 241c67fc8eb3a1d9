package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/blobstore"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/drafts"
	"github.com/sig-servicios/cotizador/internal/inspection"
	"github.com/sig-servicios/cotizador/internal/logging"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/internal/pdf"
	"github.com/sig-servicios/cotizador/validation"
)

// InspectionService runs the inspection wizard server side: step checks,
// draft autosave and finalization.
type InspectionService struct {
	store   *datastore.Store
	drafts  drafts.Store
	blobs   blobstore.Store
	catalog inspection.Catalog
}

func NewInspectionService(store *datastore.Store, d drafts.Store, b blobstore.Store, cat inspection.Catalog) *InspectionService {
	if cat == nil {
		cat = inspection.DefaultCatalog()
	}
	return &InspectionService{store: store, drafts: d, blobs: b, catalog: cat}
}

func (s *InspectionService) Catalog() inspection.Catalog { return s.catalog }

// StepResult is the outcome of validating a payload up to a step.
type StepResult struct {
	Valid      bool                  `json:"valid"`
	Step       inspection.StepID     `json:"step,omitempty"`
	Key        string                `json:"key,omitempty"`
	Violations validation.Violations `json:"violations,omitempty"`
}

// Validate checks steps 1..upTo and reports the first failing one.
func (s *InspectionService) Validate(r *inspection.Report, upTo inspection.StepID) (*StepResult, error) {
	if _, ok := inspection.StepByID(upTo); !ok {
		return nil, invalid("invalid_step", validation.Violations{"step": "out_of_range"})
	}
	err := inspection.ValidateThrough(r, s.catalog, upTo)
	var se *inspection.StepError
	if errors.As(err, &se) {
		return &StepResult{Step: se.Step.ID, Key: se.Step.Key, Violations: se.Violations}, nil
	}
	if err != nil {
		return nil, err
	}
	return &StepResult{Valid: true}, nil
}

// SaveDraft stores the caller's wizard state. Any JSON object is accepted.
func (s *InspectionService) SaveDraft(ctx context.Context, payload json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return invalid("invalid_draft", validation.Violations{"payload": "must_be_object"})
	}
	return s.drafts.Save(ctx, currentUserID(ctx), payload)
}

func (s *InspectionService) LoadDraft(ctx context.Context) (json.RawMessage, error) {
	data, err := s.drafts.Load(ctx, currentUserID(ctx))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (s *InspectionService) DeleteDraft(ctx context.Context) error {
	return s.drafts.Delete(ctx, currentUserID(ctx))
}

// Finalize validates every step, checks all evidence and signature images,
// uploads them, persists the report and clears the caller's draft. Nothing is
// uploaded unless every image is usable.
func (s *InspectionService) Finalize(ctx context.Context, r *inspection.Report) (*models.InspectionReport, error) {
	if err := inspection.ValidateThrough(r, s.catalog, inspection.LastStep); err != nil {
		var se *inspection.StepError
		if errors.As(err, &se) {
			v := validation.Violations{"step": strconv.Itoa(int(se.Step.ID))}
			for k, rule := range se.Violations {
				v[k] = rule
			}
			return nil, invalid("inspection_step_invalid", v)
		}
		return nil, err
	}

	g := r.General
	start, _ := inspection.ParseDate(g.StartDate)
	end, _ := inspection.ParseDate(g.EndDate)
	uid := currentUserID(ctx)
	report := models.InspectionReport{
		CreatedBy:      uid,
		ClientID:       g.ClientID.Ptr(),
		ClientName:     strings.TrimSpace(g.ClientName),
		Plant:          strings.TrimSpace(g.Plant),
		MachineSerial:  strings.TrimSpace(g.MachineSerial),
		StartDate:      start,
		EndDate:        end,
		VisitPurpose:   strings.TrimSpace(g.VisitPurpose),
		OpeningMeeting: g.OpeningMeeting,
		ClosingMeeting: g.ClosingMeeting,
		Participants:   r.Participants,
		FinalComments:  strings.TrimSpace(r.Closing.FinalComments),
		Efficiencies:   strings.TrimSpace(r.Closing.Efficiencies),
		Losses:         strings.TrimSpace(r.Closing.Losses),
		CustomerReview: strings.TrimSpace(r.Closing.CustomerReview),
	}

	v := validation.Violations{}
	var uploads []*blobstore.Upload
	prepare := func(field, value, prefix string, kind blobstore.Kind) (string, error) {
		up, err := blobstore.Prepare(ctx, s.blobs, value, prefix, kind)
		if errors.Is(err, blobstore.ErrInvalidImage) {
			v[field] = "invalid_image"
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("check %s: %w", field, err)
		}
		if up.Pending() {
			uploads = append(uploads, up)
		}
		return up.Key, nil
	}

	for _, resp := range r.Responses {
		row := models.InspectionResponse{
			Section:  s.catalog.SectionOf(resp.ItemID),
			ItemID:   resp.ItemID,
			State:    resp.State,
			Comment:  strings.TrimSpace(resp.Comment),
			Evidence: []string{},
		}
		for i, ev := range resp.Evidence {
			if strings.TrimSpace(ev) == "" {
				continue
			}
			key, err := prepare(fmt.Sprintf("responses.%s.evidence[%d]", resp.ItemID, i), ev, "evidence", blobstore.Photo)
			if err != nil {
				return nil, err
			}
			if key != "" {
				row.Evidence = append(row.Evidence, key)
			}
		}
		report.Responses = append(report.Responses, row)
	}
	if sig := strings.TrimSpace(r.Signatures.Inspector); sig != "" {
		key, err := prepare("signatures.inspector", sig, "signatures", blobstore.Signature)
		if err != nil {
			return nil, err
		}
		report.InspectorSignature = key
	}
	if sig := strings.TrimSpace(r.Signatures.Client); sig != "" {
		key, err := prepare("signatures.client", sig, "signatures", blobstore.Signature)
		if err != nil {
			return nil, err
		}
		report.ClientSignature = key
	}
	for _, a := range r.ActionItems {
		item := models.ActionItem{
			Description: strings.TrimSpace(a.Description),
			Type:        strings.TrimSpace(a.Type),
			Owner:       strings.TrimSpace(a.Owner),
			Criticality: strings.TrimSpace(a.Criticality),
			WorkOrder:   strings.TrimSpace(a.WorkOrder),
		}
		if due, ok := inspection.ParseDate(a.DueDate); ok {
			item.DueDate = &due
		}
		report.ActionItems = append(report.ActionItems, item)
	}
	if !v.Empty() {
		return nil, invalid("invalid_image", v)
	}

	var stored []string
	for _, up := range uploads {
		if err := s.blobs.Put(ctx, up.Key, up.ContentType, up.Data); err != nil {
			s.discard(ctx, stored)
			return nil, fmt.Errorf("store image: %w", err)
		}
		stored = append(stored, up.Key)
	}
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Create(&report).Error
	})
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	if err := s.drafts.Delete(ctx, uid); err != nil && !errors.Is(err, drafts.ErrNotFound) {
		return nil, fmt.Errorf("clear draft: %w", err)
	}
	return &report, nil
}

// discard removes blobs uploaded for a report that was not saved.
func (s *InspectionService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			logging.Error(logging.FromContext(ctx), "inspections.go", "Finalize", "discard blob", key, err)
		}
	}
}

func (s *InspectionService) List(ctx context.Context) ([]models.InspectionReport, error) {
	var out []models.InspectionReport
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Order("created_at desc, id desc").Find(&out).Error
	})
	return out, err
}

func (s *InspectionService) Get(ctx context.Context, id uint) (*models.InspectionReport, error) {
	var r models.InspectionReport
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return first(tx.Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).Preload("ActionItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}), &r, id)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Document loads a report with its images and maps it for rendering.
func (s *InspectionService) Document(ctx context.Context, id uint) (*pdf.InspectionData, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var company models.Company
	err = s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Order("id asc").Limit(1).Find(&company).Error
	})
	if err != nil {
		return nil, err
	}

	doc := &pdf.InspectionData{
		Number:         fmt.Sprintf("INS-%d", r.ID),
		Company:        companyData(&company),
		ClientName:     r.ClientName,
		Plant:          r.Plant,
		MachineSerial:  r.MachineSerial,
		Period:         ReportDate(r.StartDate) + " - " + ReportDate(r.EndDate),
		VisitPurpose:   r.VisitPurpose,
		OpeningMeeting: r.OpeningMeeting,
		ClosingMeeting: r.ClosingMeeting,
		StateCounts:    map[string]int{},
		FinalComments:  r.FinalComments,
		Efficiencies:   r.Efficiencies,
		Losses:         r.Losses,
		CustomerReview: r.CustomerReview,
	}
	for _, p := range r.Participants {
		doc.Participants = append(doc.Participants, joinNonEmpty(" - ", p.Name, p.Position, p.Company))
	}

	byItem := make(map[string]models.InspectionResponse, len(r.Responses))
	for _, resp := range r.Responses {
		byItem[resp.ItemID] = resp
		doc.StateCounts[resp.State]++
	}
	for _, sec := range s.catalog {
		ps := pdf.InspectionSection{Title: sec.Title}
		for _, it := range sec.Items {
			resp := byItem[it.ID]
			item := pdf.InspectionItem{Text: it.Text, State: resp.State, Comment: resp.Comment}
			for _, key := range resp.Evidence {
				img, err := s.image(ctx, key)
				if err != nil {
					return nil, err
				}
				item.Evidence = append(item.Evidence, img)
			}
			ps.Items = append(ps.Items, item)
		}
		doc.Sections = append(doc.Sections, ps)
	}
	for _, a := range r.ActionItems {
		due := ""
		if a.DueDate != nil {
			due = ReportDate(*a.DueDate)
		}
		doc.Actions = append(doc.Actions, pdf.InspectionAction{
			Description: a.Description,
			Type:        a.Type,
			Owner:       a.Owner,
			DueDate:     due,
			Criticality: a.Criticality,
			WorkOrder:   a.WorkOrder,
		})
	}
	if doc.InspectorSign, err = s.image(ctx, r.InspectorSignature); err != nil {
		return nil, err
	}
	if doc.ClientSign, err = s.image(ctx, r.ClientSignature); err != nil {
		return nil, err
	}
	return doc, nil
}

// image fetches a stored image. Missing blobs render as blank.
func (s *InspectionService) image(ctx context.Context, key string) (pdf.Image, error) {
	if key == "" {
		return pdf.Image{}, nil
	}
	data, ct, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blobstore.ErrNotFound) {
		return pdf.Image{}, nil
	}
	if err != nil {
		return pdf.Image{}, fmt.Errorf("load image %s: %w", key, err)
	}
	return pdf.Image{Data: data, Type: pdf.ImageType(ct)}, nil
}

func companyData(c *models.Company) pdf.CompanyData {
	return pdf.CompanyData{
		Name:    c.Name,
		Address: c.FullAddress(),
		Email:   c.Email,
		Phone:   c.Phone,
		TaxID:   c.TaxID,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// ReportDate formats a date for documents.
func ReportDate(t time.Time) string { return t.Format("02/01/2006") }
