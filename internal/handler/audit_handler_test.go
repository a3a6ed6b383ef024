package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-perfumeria-ws/internal/audit"
	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

// stubAuditService returns canned results so handler tests need no database.
type stubAuditService struct {
	verdict    *audit.Verdict
	result     *service.PostingResult
	entrada    *model.Entrada
	inspectErr error
	commitErr  error
	rejectErr  error
}

func (s *stubAuditService) Inspect(number string) (*audit.Verdict, error) {
	return s.verdict, s.inspectErr
}

func (s *stubAuditService) Commit(number string, auditor service.AuditorIdentity, notes string) (*service.PostingResult, error) {
	return s.result, s.commitErr
}

func (s *stubAuditService) Reject(number string, auditor service.AuditorIdentity, notes string) (*model.Entrada, error) {
	return s.entrada, s.rejectErr
}

func (s *stubAuditService) History(number string) ([]model.AuditEvent, error) {
	return nil, s.inspectErr
}

func newTestApp(stub *stubAuditService) *fiber.App {
	h := NewAuditHandler(stub)
	app := fiber.New()
	app.Get("/entradas/:number/inspeccion", h.InspectEntrada)
	app.Post("/entradas/:number/validar", h.ValidateEntrada)
	app.Post("/entradas/:number/rechazar", h.RejectEntrada)
	return app
}

func TestInspectEntrada_ReturnsVerdict(t *testing.T) {
	stub := &stubAuditService{
		verdict: &audit.Verdict{
			EntradaNumber: "ENT-001",
			Kind:          model.EntradaCompra,
			Status:        audit.VerdictApproved,
			CompliancePct: 100,
			RiskLevel:     audit.RiskLow,
		},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/entradas/ENT-001/inspeccion", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["estado_general"] != "APPROVED" {
		t.Fatalf("expected estado_general APPROVED, got %v", body["estado_general"])
	}
	if body["porcentaje_cumplimiento"].(float64) != 100 {
		t.Fatalf("expected 100%% compliance, got %v", body["porcentaje_cumplimiento"])
	}
}

func TestInspectEntrada_NotFound(t *testing.T) {
	app := newTestApp(&stubAuditService{inspectErr: service.ErrEntradaNotFound})

	req := httptest.NewRequest(http.MethodGet, "/entradas/NOPE/inspeccion", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestValidateEntrada_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrEntradaNotFound, 404},
		{service.ErrCounterpartNotFound, 404},
		{service.ErrAlreadyProcessed, 409},
		{service.ErrValidationBlocked, 422},
		{service.ErrInconsistentReference, 422},
	}

	for _, tc := range cases {
		app := newTestApp(&stubAuditService{commitErr: tc.err})

		req := httptest.NewRequest(http.MethodPost, "/entradas/ENT-001/validar",
			strings.NewReader(`{"notas":"ok"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("err=%v: expected %d, got %d", tc.err, tc.want, resp.StatusCode)
		}
	}
}

func TestValidateEntrada_Success(t *testing.T) {
	stub := &stubAuditService{
		result: &service.PostingResult{
			EntradaNumber:     "ENT-001",
			Kind:              model.EntradaCompra,
			CounterpartNumber: "OC-001",
			NewStock:          120,
		},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(http.MethodPost, "/entradas/ENT-001/validar",
		strings.NewReader(`{"notas":"todo en orden"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			NewStock int `json:"stock_resultante"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.NewStock != 120 {
		t.Fatalf("expected stock 120, got %d", body.Data.NewStock)
	}
}

func TestRejectEntrada_RequiresNotes(t *testing.T) {
	app := newTestApp(&stubAuditService{entrada: &model.Entrada{Number: "ENT-001"}})

	req := httptest.NewRequest(http.MethodPost, "/entradas/ENT-001/rechazar",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without notes, got %d", resp.StatusCode)
	}
}

func TestRejectEntrada_AlreadyProcessed(t *testing.T) {
	app := newTestApp(&stubAuditService{rejectErr: service.ErrAlreadyProcessed})

	req := httptest.NewRequest(http.MethodPost, "/entradas/ENT-001/rechazar",
		strings.NewReader(`{"notas":"sin soporte"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
