package services

import (
	"errors"
	"testing"

	"github.com/sig-servicios/cotizador/internal/models"
)

func TestDeactivateServiceKeepsQuotationItems(t *testing.T) {
	store, d := newStore(t)
	tariffs := NewTariffService(store)
	quotes := NewQuotationService(store, "MX")
	ctx := userCtx("u-1")

	svc, err := tariffs.Create(ctx, TariffInput{Concept: "Calibración", Unit: models.UnitHour, PriceWithContract: 900, PriceWithoutContract: 1100.456})
	if err != nil {
		t.Fatal(err)
	}
	if svc.Currency != models.DefaultCurrency || svc.PriceWithoutContract != 1100.46 || !svc.Active {
		t.Fatalf("service %+v", svc)
	}
	q, err := quotes.Create(ctx, CreateQuotationInput{Items: []ItemInput{{Concept: svc.Concept, Quantity: ptr(3.0), UnitPrice: ptr(svc.PriceWithContract)}}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tariffs.Deactivate(ctx, svc.ID); err != nil {
		t.Fatal(err)
	}
	active, err := tariffs.List(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range active {
		if s.ID == svc.ID {
			t.Fatal("deactivated service still listed")
		}
	}
	all, _ := tariffs.List(ctx, true)
	if len(all) != 1 || all[0].Active {
		t.Fatalf("all %+v", all)
	}

	var items []models.QuotationItem
	d.Where("quotation_id = ?", q.ID).Find(&items)
	if len(items) != 1 || items[0].Concept != "Calibración" || items[0].UnitPrice != 900 || items[0].Subtotal != 2700 {
		t.Fatalf("items changed: %+v", items)
	}

	lookups, err := quotes.Lookups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lookups.Services) != 0 {
		t.Fatalf("lookups must only list active services: %+v", lookups.Services)
	}
}

func TestTariffValidation(t *testing.T) {
	store, _ := newStore(t)
	tariffs := NewTariffService(store)
	_, err := tariffs.Create(userCtx("u-1"), TariffInput{Unit: "week", PriceWithContract: -1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Violations["concept"] != "required" || ve.Violations["unit"] != "oneof" || ve.Violations["price_with_contract"] != "gte" {
		t.Fatalf("violations %v", ve.Violations)
	}
	if _, err := tariffs.Deactivate(userCtx("u-1"), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientCRUD(t *testing.T) {
	store, _ := newStore(t)
	clients := NewClientService(store, "MX")
	quotes := NewQuotationService(store, "MX")
	ctx := userCtx("u-1")

	c, err := clients.Create(ctx, ClientInput{LegalName: " Industrias Norte ", Email: "Compras@Norte.MX", Phone: "81 1234 5678"})
	if err != nil {
		t.Fatal(err)
	}
	if c.LegalName != "Industrias Norte" || c.Email != "compras@norte.mx" || c.Phone != "+528112345678" || c.CreatedBy != "u-1" {
		t.Fatalf("client %+v", c)
	}
	found, _ := clients.List(ctx, "norte")
	if len(found) != 1 {
		t.Fatalf("search found %d", len(found))
	}
	if _, err := clients.Update(ctx, c.ID, ClientInput{LegalName: "Industrias Norte", TradeName: "InNorte"}); err != nil {
		t.Fatal(err)
	}
	got, _ := clients.Get(ctx, c.ID)
	if got.DisplayName() != "InNorte" {
		t.Fatalf("display name %q", got.DisplayName())
	}

	if _, err := quotes.Create(ctx, CreateQuotationInput{ClientID: models.NewFlexibleID(c.ID)}); err != nil {
		t.Fatal(err)
	}
	var ve *ValidationError
	if err := clients.Delete(ctx, c.ID); !errors.As(err, &ve) || ve.Message != "client_has_quotations" {
		t.Fatalf("expected client_has_quotations, got %v", err)
	}

	other, _ := clients.Create(ctx, ClientInput{LegalName: "Temporal"})
	if err := clients.Delete(ctx, other.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := clients.Get(ctx, other.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := clients.Create(ctx, ClientInput{Email: "bad"}); !errors.As(err, &ve) || ve.Violations["email"] != "email" {
		t.Fatalf("expected email violation, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"81 1234 5678":    "+528112345678",
		"+1 650 253 0000": "+16502530000",
		"ext. 12":         "ext. 12",
	}
	for in, want := range cases {
		if got := NormalizePhone(in, "MX"); got != want {
			t.Errorf("NormalizePhone(%q) = %q want %q", in, got, want)
		}
	}
}

func TestUsersMeAndUpdate(t *testing.T) {
	store, d := newStore(t)
	users := NewUserService(store)
	if err := d.Create(&models.User{ID: "u-1", Name: "Ana", Email: "ana@sig.com.mx", Active: true}).Error; err != nil {
		t.Fatal(err)
	}
	ctx := userCtx("u-1")
	me, err := users.Me(ctx)
	if err != nil || me.Name != "Ana" {
		t.Fatalf("me=%+v err=%v", me, err)
	}
	updated, err := users.UpdateMe(ctx, UpdateProfileInput{Department: ptr(" Servicio ")})
	if err != nil || updated.Department != "Servicio" || updated.Name != "Ana" {
		t.Fatalf("updated=%+v err=%v", updated, err)
	}
	var ve *ValidationError
	if _, err := users.UpdateMe(ctx, UpdateProfileInput{Name: ptr(" ")}); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := users.Me(userCtx("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
