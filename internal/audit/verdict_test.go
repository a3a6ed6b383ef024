package audit

import (
	"testing"
	"time"

	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	testSupplierID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testPerfumeID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testSourceWhID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testDestWhID    = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	testOrderDate   = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testReceiptDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

// compraContext builds a fully matching COMPRA context that evaluates to
// APPROVED unless a test mutates it.
func compraContext() *Context {
	price := decimal.NewFromFloat(350.00)
	return &Context{
		Entrada: &model.Entrada{
			Number:      "ENT-001",
			Kind:        model.EntradaCompra,
			Quantity:    100,
			PerfumeID:   testPerfumeID,
			SupplierRef: testSupplierID.String(),
			UnitPrice:   &price,
			ReceiptDate: testReceiptDate,
		},
		Order: &model.PurchaseOrder{
			Number:     "OC-001",
			PerfumeID:  testPerfumeID,
			SupplierID: testSupplierID,
			Quantity:   100,
			UnitPrice:  decimal.NewFromFloat(350.00),
			OrderDate:  testOrderDate,
			Status:     model.OrderPending,
		},
		SupplierID:            testSupplierID,
		CounterpartSupplierID: testSupplierID,
	}
}

// traspasoContext builds a fully matching TRASPASO context.
func traspasoContext() *Context {
	return &Context{
		Entrada: &model.Entrada{
			Number:      "ENT-T01",
			Kind:        model.EntradaTraspaso,
			Quantity:    40,
			PerfumeID:   testPerfumeID,
			SupplierRef: testSupplierID.String(),
			ReceiptDate: testOrderDate.AddDate(0, 0, 2),
		},
		Traspaso: &model.Traspaso{
			Number:            "TR-001",
			PerfumeID:         testPerfumeID,
			Quantity:          40,
			SupplierRef:       testSupplierID.String(),
			Status:            model.TraspasoPending,
			DepartureDate:     testOrderDate,
			SourceWarehouseID: testSourceWhID,
		},
		SupplierID:            testSupplierID,
		CounterpartSupplierID: testSupplierID,
		SourceWarehouseID:     testSourceWhID,
		DestWarehouseID:       testDestWhID,
	}
}

func findByCode(findings []Finding, code string) *Finding {
	for i := range findings {
		if findings[i].Code == code {
			return &findings[i]
		}
	}
	return nil
}

func TestEvaluate_PerfectCompraApproved(t *testing.T) {
	v := Evaluate(compraContext())

	if v.Status != VerdictApproved {
		t.Fatalf("expected APPROVED, got %s", v.Status)
	}
	if v.CompliancePct != 100 {
		t.Fatalf("expected 100%% compliance, got %d", v.CompliancePct)
	}
	if v.RiskLevel != RiskLow {
		t.Fatalf("expected LOW risk, got %s", v.RiskLevel)
	}
	if len(v.Discrepancies) != 0 || len(v.Warnings) != 0 {
		t.Fatalf("expected no discrepancies/warnings, got %d/%d", len(v.Discrepancies), len(v.Warnings))
	}
	if v.ChecksRun != 5 || v.ChecksPassed != 5 {
		t.Fatalf("expected 5/5 checks, got %d/%d", v.ChecksPassed, v.ChecksRun)
	}
}

func TestEvaluate_CompraExcessRejected(t *testing.T) {
	ctx := compraContext()
	ctx.Entrada.Quantity = 110

	v := Evaluate(ctx)
	if v.Status != VerdictRejected {
		t.Fatalf("expected REJECTED, got %s", v.Status)
	}
	f := findByCode(v.Discrepancies, "cantidad_exceso")
	if f == nil {
		t.Fatal("expected cantidad_exceso discrepancy")
	}
	if f.CanContinue {
		t.Fatal("excess must be blocking")
	}
	if v.Postable() {
		t.Fatal("rejected verdict must not be postable")
	}
}

func TestEvaluate_CompraShortfallBands(t *testing.T) {
	cases := []struct {
		received    int
		code        string
		status      VerdictStatus
		continuable bool
	}{
		{40, "faltante_critico", VerdictRejected, true},   // 60% short
		{45, "faltante_critico", VerdictRejected, true},   // 55% short
		{50, "entrega_parcial", VerdictConditional, true}, // exactly 50%: not critical
		{55, "entrega_parcial", VerdictConditional, true}, // 45% short
		{99, "entrega_parcial", VerdictConditional, true},
	}

	for _, tc := range cases {
		ctx := compraContext()
		ctx.Entrada.Quantity = tc.received

		v := Evaluate(ctx)
		if v.Status != tc.status {
			t.Fatalf("received=%d: expected %s, got %s", tc.received, tc.status, v.Status)
		}
		var f *Finding
		if tc.status == VerdictRejected {
			f = findByCode(v.Discrepancies, tc.code)
		} else {
			f = findByCode(v.Warnings, tc.code)
		}
		if f == nil {
			t.Fatalf("received=%d: expected finding %s", tc.received, tc.code)
		}
		if f.CanContinue != tc.continuable {
			t.Fatalf("received=%d: expected puede_continuar=%v", tc.received, tc.continuable)
		}
	}
}

func TestEvaluate_CompraImpossibleDate(t *testing.T) {
	ctx := compraContext()
	ctx.Entrada.ReceiptDate = testOrderDate.AddDate(0, 0, -1)

	v := Evaluate(ctx)
	if v.Status != VerdictRejected {
		t.Fatalf("expected REJECTED, got %s", v.Status)
	}
	if findByCode(v.Discrepancies, "fecha_imposible") == nil {
		t.Fatal("expected fecha_imposible discrepancy")
	}
}

func TestEvaluate_CompraLateDeliveryConditional(t *testing.T) {
	ctx := compraContext()
	ctx.Entrada.ReceiptDate = testOrderDate.AddDate(0, 0, 45)

	v := Evaluate(ctx)
	if v.Status != VerdictConditional {
		t.Fatalf("expected CONDITIONAL, got %s", v.Status)
	}
	f := findByCode(v.Warnings, "entrega_tardia")
	if f == nil {
		t.Fatal("expected entrega_tardia warning")
	}
	if f.Detail["dias_transcurridos"].(int) != 45 {
		t.Fatalf("expected 45 days, got %v", f.Detail["dias_transcurridos"])
	}
}

func TestEvaluate_OrderTerminalStates(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderCompleted, model.OrderCancelled} {
		ctx := compraContext()
		ctx.Order.Status = status

		v := Evaluate(ctx)
		if v.Status != VerdictRejected {
			t.Fatalf("status=%s: expected REJECTED, got %s", status, v.Status)
		}
		if v.RiskLevel != RiskHigh {
			t.Fatalf("status=%s: expected HIGH risk, got %s", status, v.RiskLevel)
		}
	}
}

func TestEvaluate_PriceBands(t *testing.T) {
	cases := []struct {
		entradaPrice float64
		code         string
		status       VerdictStatus
	}{
		{350.00, "", VerdictApproved},                        // exact
		{360.00, "", VerdictApproved},                        // ~2.9%, noise
		{370.00, "precio_desviado", VerdictConditional},      // ~5.7%
		{420.00, "precio_divergente", VerdictManagementReview}, // 20%
	}

	for _, tc := range cases {
		ctx := compraContext()
		price := decimal.NewFromFloat(tc.entradaPrice)
		ctx.Entrada.UnitPrice = &price

		v := Evaluate(ctx)
		if v.Status != tc.status {
			t.Fatalf("price=%.2f: expected %s, got %s", tc.entradaPrice, tc.status, v.Status)
		}
		if tc.code != "" && findByCode(v.Warnings, tc.code) == nil {
			t.Fatalf("price=%.2f: expected warning %s", tc.entradaPrice, tc.code)
		}
	}
}

func TestEvaluate_PriceCheckSkippedWhenAbsent(t *testing.T) {
	ctx := compraContext()
	ctx.Entrada.UnitPrice = nil

	v := Evaluate(ctx)
	if v.ChecksRun != 4 {
		t.Fatalf("expected 4 checks run without a price, got %d", v.ChecksRun)
	}
	if v.Status != VerdictApproved {
		t.Fatalf("expected APPROVED, got %s", v.Status)
	}
	if v.CompliancePct != 100 {
		t.Fatalf("skipped check must not drag compliance: got %d", v.CompliancePct)
	}
}

func TestEvaluate_SupplierMismatchRejected(t *testing.T) {
	ctx := compraContext()
	ctx.CounterpartSupplierID = uuid.MustParse("99999999-9999-9999-9999-999999999999")

	v := Evaluate(ctx)
	if v.Status != VerdictRejected {
		t.Fatalf("expected REJECTED, got %s", v.Status)
	}
	if findByCode(v.Discrepancies, "proveedor_distinto") == nil {
		t.Fatal("expected proveedor_distinto discrepancy")
	}
}

func TestEvaluate_PerfectTraspasoApproved(t *testing.T) {
	v := Evaluate(traspasoContext())

	if v.Status != VerdictApproved {
		t.Fatalf("expected APPROVED, got %s", v.Status)
	}
	if v.ChecksRun != 6 || v.ChecksPassed != 6 {
		t.Fatalf("expected 6/6 checks, got %d/%d", v.ChecksPassed, v.ChecksRun)
	}
}

func TestEvaluate_TraspasoAnyQuantityDiffRejected(t *testing.T) {
	// Internal movements have no tolerance band: one unit off is critical.
	for _, received := range []int{39, 41} {
		ctx := traspasoContext()
		ctx.Entrada.Quantity = received

		v := Evaluate(ctx)
		if v.Status != VerdictRejected {
			t.Fatalf("received=%d: expected REJECTED, got %s", received, v.Status)
		}

		wantKind := "FALTANTE"
		if received > 40 {
			wantKind = "EXCESO"
		}
		var f *Finding
		for i := range v.Discrepancies {
			if v.Discrepancies[i].Detail["tipo_diferencia"] == wantKind {
				f = &v.Discrepancies[i]
			}
		}
		if f == nil {
			t.Fatalf("received=%d: expected %s discrepancy", received, wantKind)
		}
		if f.Detail["diferencia"].(int) != 1 {
			t.Fatalf("received=%d: expected diferencia 1, got %v", received, f.Detail["diferencia"])
		}
	}
}

func TestEvaluate_TraspasoEqualWarehousesRejected(t *testing.T) {
	ctx := traspasoContext()
	ctx.DestWarehouseID = ctx.SourceWarehouseID

	v := Evaluate(ctx)
	if v.Status != VerdictRejected {
		t.Fatalf("expected REJECTED, got %s", v.Status)
	}
	if findByCode(v.Discrepancies, "almacenes_iguales") == nil {
		t.Fatal("expected almacenes_iguales discrepancy")
	}
}

func TestEvaluate_TraspasoUnresolvedWarehouseEscalates(t *testing.T) {
	ctx := traspasoContext()
	ctx.DestWarehouseID = uuid.Nil

	v := Evaluate(ctx)
	if v.Status != VerdictManagementReview {
		t.Fatalf("expected REQUIRES_MANAGEMENT_REVIEW, got %s", v.Status)
	}
	f := findByCode(v.Warnings, "almacen_no_resuelto")
	if f == nil {
		t.Fatal("expected almacen_no_resuelto warning")
	}
	if f.Severity != SeverityImportant {
		t.Fatalf("expected IMPORTANT severity, got %s", f.Severity)
	}
	if v.RiskLevel != RiskMedium {
		t.Fatalf("expected MEDIUM risk, got %s", v.RiskLevel)
	}
}

func TestEvaluate_TraspasoRejectedAtOrigin(t *testing.T) {
	ctx := traspasoContext()
	ctx.Traspaso.Status = model.TraspasoRejected

	v := Evaluate(ctx)
	if v.Status != VerdictRejected {
		t.Fatalf("expected REJECTED, got %s", v.Status)
	}
	if findByCode(v.Discrepancies, "traspaso_rechazado") == nil {
		t.Fatal("expected traspaso_rechazado discrepancy")
	}
}

func TestEvaluate_TraspasoAlreadyValidatedIsAdvisory(t *testing.T) {
	ctx := traspasoContext()
	ctx.Traspaso.Status = model.TraspasoValidated

	v := Evaluate(ctx)
	if v.Status != VerdictConditional {
		t.Fatalf("expected CONDITIONAL, got %s", v.Status)
	}
	f := findByCode(v.Warnings, "posible_duplicado")
	if f == nil {
		t.Fatal("expected posible_duplicado warning")
	}
	if !f.CanContinue {
		t.Fatal("posible_duplicado must be advisory, not blocking")
	}
}

func TestEvaluate_SlowTransferConditional(t *testing.T) {
	ctx := traspasoContext()
	ctx.Entrada.ReceiptDate = ctx.Traspaso.DepartureDate.AddDate(0, 0, 10)

	v := Evaluate(ctx)
	if v.Status != VerdictConditional {
		t.Fatalf("expected CONDITIONAL, got %s", v.Status)
	}
	if findByCode(v.Warnings, "traspaso_lento") == nil {
		t.Fatal("expected traspaso_lento warning")
	}
}

func TestEvaluateMissingCounterpart(t *testing.T) {
	for _, kind := range []model.EntradaKind{model.EntradaCompra, model.EntradaTraspaso} {
		e := &model.Entrada{Number: "ENT-X", Kind: kind}

		v := EvaluateMissingCounterpart(e)
		if v.Status != VerdictRejected {
			t.Fatalf("kind=%s: expected REJECTED, got %s", kind, v.Status)
		}
		if v.ChecksRun != 1 || v.ChecksPassed != 0 {
			t.Fatalf("kind=%s: expected 0/1 checks, got %d/%d", kind, v.ChecksPassed, v.ChecksRun)
		}
		if v.CompliancePct != 0 {
			t.Fatalf("kind=%s: expected 0%% compliance, got %d", kind, v.CompliancePct)
		}
		if len(v.Findings) != 1 {
			t.Fatalf("kind=%s: expected exactly one finding, got %d", kind, len(v.Findings))
		}
		f := v.Findings[0]
		if f.Code != "sin_documento_respaldo" || f.Severity != SeverityCritical || f.CanContinue {
			t.Fatalf("kind=%s: unexpected finding %+v", kind, f)
		}
	}
}

func TestEvaluate_FindingsSortedBySeverity(t *testing.T) {
	// Force a late delivery (MINOR warning) plus a supplier mismatch
	// (CRITICAL) and verify the critical finding sorts first.
	ctx := compraContext()
	ctx.Entrada.ReceiptDate = testOrderDate.AddDate(0, 0, 45)
	ctx.CounterpartSupplierID = uuid.MustParse("99999999-9999-9999-9999-999999999999")

	v := Evaluate(ctx)
	if len(v.Findings) < 2 {
		t.Fatalf("expected multiple findings, got %d", len(v.Findings))
	}
	if v.Findings[0].Severity != SeverityCritical {
		t.Fatalf("expected CRITICAL first, got %s", v.Findings[0].Severity)
	}
	// Confirmations, if any, must sink to the end.
	sawConfirmation := false
	for _, f := range v.Findings {
		if f.Category == CategoryConfirmation {
			sawConfirmation = true
			continue
		}
		if sawConfirmation {
			t.Fatal("non-confirmation finding after a confirmation in sorted order")
		}
	}
}

func TestEvaluate_ComplianceWithinBounds(t *testing.T) {
	contexts := []*Context{
		compraContext(),
		traspasoContext(),
	}
	// Degrade both in several ways and confirm compliance stays in [0,100].
	mutations := []func(*Context){
		func(ctx *Context) {},
		func(ctx *Context) { ctx.Entrada.Quantity += 5 },
		func(ctx *Context) { ctx.CounterpartSupplierID = uuid.Nil },
		func(ctx *Context) { ctx.Entrada.ReceiptDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	for _, base := range contexts {
		for i, mutate := range mutations {
			ctx := base
			mutate(ctx)
			v := Evaluate(ctx)
			if v.CompliancePct < 0 || v.CompliancePct > 100 {
				t.Fatalf("mutation %d: compliance out of bounds: %d", i, v.CompliancePct)
			}
			if v.ChecksPassed > v.ChecksRun {
				t.Fatalf("mutation %d: passed %d > run %d", i, v.ChecksPassed, v.ChecksRun)
			}
		}
	}
}
