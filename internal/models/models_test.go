package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestStatusChanges(t *testing.T) {
	got, err := StatusChanges(StatusAccepted, strPtr(" PO-7 "), strPtr("Completed"))
	if err != nil {
		t.Fatal(err)
	}
	if got["status"] != StatusAccepted || got["purchase_order"] != "PO-7" || got["po_status"] != POCompleted {
		t.Fatalf("accepted with PO: %v", got)
	}

	got, _ = StatusChanges(StatusAccepted, nil, strPtr(""))
	if len(got) != 1 {
		t.Fatalf("accepted without PO must only set status: %v", got)
	}

	for _, target := range []string{StatusDraft, StatusRejected} {
		got, err := StatusChanges(target, strPtr("PO-9"), strPtr(POCompleted))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got["po_status"] != POPending {
			t.Fatalf("%s: %v", target, got)
		}
	}

	if _, err := StatusChanges("sent", nil, nil); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := StatusChanges(StatusAccepted, nil, strPtr("lost")); !errors.Is(err, ErrInvalidPOStatus) {
		t.Fatalf("expected ErrInvalidPOStatus, got %v", err)
	}
}

func TestFlexibleID(t *testing.T) {
	cases := map[string]*uint{
		`12`:    uintPtr(12),
		`"34"`:  uintPtr(34),
		`null`:  nil,
		`""`:    nil,
		`"abc"`: nil,
		`0`:     nil,
		`"-3"`:  nil,
	}
	for raw, want := range cases {
		var in struct {
			ID FlexibleID `json:"id"`
		}
		if err := json.Unmarshal([]byte(`{"id":`+raw+`}`), &in); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		got := in.ID.Ptr()
		switch {
		case want == nil && got != nil:
			t.Errorf("%s: expected absent, got %d", raw, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("%s: expected %d, got %v", raw, *want, got)
		}
	}
	b, _ := json.Marshal(NewFlexibleID(5))
	if string(b) != "5" {
		t.Fatalf("marshal %s", b)
	}
	b, _ = json.Marshal(FlexibleID{})
	if string(b) != "null" {
		t.Fatalf("marshal absent %s", b)
	}
}

func TestFolio(t *testing.T) {
	q := &Quotation{ID: 42}
	if err := q.AfterFind(nil); err != nil || q.Folio != "SIG-42" {
		t.Fatalf("folio %q", q.Folio)
	}
}

func TestClientDisplayNameNilSafe(t *testing.T) {
	var c *Client
	if c.DisplayName() != "" {
		t.Fatal("nil client should have empty name")
	}
	c = &Client{LegalName: "Acme SA", City: "Monterrey", State: "NL", PostalCode: "64000", Address: "Calle 1"}
	if c.DisplayName() != "Acme SA" || c.FullAddress() != "Calle 1\nMonterrey, NL 64000" {
		t.Fatalf("got %q / %q", c.DisplayName(), c.FullAddress())
	}
}

func uintPtr(v uint) *uint { return &v }
