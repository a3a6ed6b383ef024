package service_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/internal/service"
	"go-perfumeria-ws/internal/ws"
	"go-perfumeria-ws/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// These tests exercise the posting engine against a real postgres because
// the commit path relies on SELECT ... FOR UPDATE and transaction rollback,
// which no in-memory fake reproduces faithfully.

func setupPostingDB(t *testing.T) (*gorm.DB, service.AuditService) {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres, see DB_* env vars)")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Perfume{}, &model.Supplier{}, &model.Warehouse{},
		&model.PurchaseOrder{}, &model.Entrada{}, &model.Traspaso{},
		&model.AuditEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	svc := service.NewAuditService(
		repository.NewEntradaRepo(db),
		repository.NewOrderRepo(db),
		repository.NewTraspasoRepo(db),
		repository.NewPerfumeRepo(db),
		repository.NewSupplierRepo(db),
		repository.NewWarehouseRepo(db),
		repository.NewAuditEventRepo(db),
		db, hub,
	)
	return db, svc
}

// postingFixture seeds one perfume, supplier, warehouse, and a pending
// purchase order, all keyed by a unique suffix so tests can share a database.
type postingFixture struct {
	suffix    string
	perfume   model.Perfume
	supplier  model.Supplier
	warehouse model.Warehouse
	order     model.PurchaseOrder
}

func seedPostingFixture(t *testing.T, db *gorm.DB, orderQty, initialStock int) *postingFixture {
	t.Helper()
	suffix := strings.ToUpper(uuid.NewString()[:8])

	f := &postingFixture{suffix: suffix}
	f.perfume = model.Perfume{
		SKU:   "SKU-" + suffix,
		Name:  "Agua de Prueba " + suffix,
		Stock: initialStock,
	}
	if err := db.Create(&f.perfume).Error; err != nil {
		t.Fatalf("seed perfume: %v", err)
	}
	f.supplier = model.Supplier{Name: "Proveedor " + suffix, IsActive: true}
	if err := db.Create(&f.supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	f.warehouse = model.Warehouse{Code: "ALM-" + suffix, Name: "Almacen " + suffix, IsActive: true}
	if err := db.Create(&f.warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}

	unitPrice := decimal.NewFromInt(350)
	f.order = model.PurchaseOrder{
		Number:     "OC-" + suffix,
		PerfumeID:  f.perfume.ID,
		SupplierID: f.supplier.ID,
		Quantity:   orderQty,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(orderQty))),
		OrderDate:  time.Now().AddDate(0, 0, -2),
		Status:     model.OrderPending,
	}
	if err := db.Create(&f.order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return f
}

func (f *postingFixture) newEntrada(t *testing.T, db *gorm.DB, qty int) *model.Entrada {
	t.Helper()
	entrada := &model.Entrada{
		Number:           "ENT-" + f.suffix,
		Kind:             model.EntradaCompra,
		Quantity:         qty,
		PerfumeID:        f.perfume.ID,
		SupplierRef:      f.supplier.ID.String(),
		ReceiptDate:      time.Now(),
		LogicalDate:      time.Now(),
		Status:           model.EntradaRegistered,
		OrderID:          &f.order.ID,
		DestWarehouseRef: f.warehouse.Code,
	}
	if err := db.Create(entrada).Error; err != nil {
		t.Fatalf("seed entrada: %v", err)
	}
	return entrada
}

func (f *postingFixture) currentStock(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var perfume model.Perfume
	if err := db.First(&perfume, "id = ?", f.perfume.ID).Error; err != nil {
		t.Fatalf("reload perfume: %v", err)
	}
	return perfume.Stock
}

func TestCommit_SecondSubmitIsRejectedAndStockIncrementsOnce(t *testing.T) {
	db, svc := setupPostingDB(t)
	f := seedPostingFixture(t, db, 100, 10)
	f.newEntrada(t, db, 100)
	auditor := service.AuditorIdentity{ID: "auditor-1", Name: "Ana Auditor", Email: "ana@local"}

	result, err := svc.Commit("ENT-"+f.suffix, auditor, "todo en orden")
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if result.NewStock != 110 {
		t.Fatalf("expected stock 110 after posting, got %d", result.NewStock)
	}

	if _, err := svc.Commit("ENT-"+f.suffix, auditor, "reintento"); !errors.Is(err, service.ErrAlreadyProcessed) {
		t.Fatalf("second commit: expected ErrAlreadyProcessed, got %v", err)
	}

	if stock := f.currentStock(t, db); stock != 110 {
		t.Fatalf("stock must be incremented exactly once, got %d", stock)
	}

	var order model.PurchaseOrder
	if err := db.First(&order, "id = ?", f.order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != model.OrderCompleted {
		t.Fatalf("expected order COMPLETADA, got %s", order.Status)
	}

	var entrada model.Entrada
	if err := db.First(&entrada, "number = ?", "ENT-"+f.suffix).Error; err != nil {
		t.Fatalf("reload entrada: %v", err)
	}
	if entrada.Status != model.EntradaValidated {
		t.Fatalf("expected entrada VALIDADA, got %s", entrada.Status)
	}
	if entrada.DestWarehouseRef != f.warehouse.ID.String() {
		t.Fatalf("expected warehouse ref normalized to uuid, got %q", entrada.DestWarehouseRef)
	}
}

func TestCommit_RejectedVerdictBlocksPostingWithoutMutation(t *testing.T) {
	db, svc := setupPostingDB(t)
	f := seedPostingFixture(t, db, 100, 10)
	// 40 of 100 is a critical shortfall, the verdict is REJECTED
	f.newEntrada(t, db, 40)
	auditor := service.AuditorIdentity{ID: "auditor-1", Name: "Ana Auditor", Email: "ana@local"}

	_, err := svc.Commit("ENT-"+f.suffix, auditor, "")
	if !errors.Is(err, service.ErrValidationBlocked) {
		t.Fatalf("expected ErrValidationBlocked, got %v", err)
	}

	if stock := f.currentStock(t, db); stock != 10 {
		t.Fatalf("blocked posting must not touch stock, got %d", stock)
	}
	var entrada model.Entrada
	if err := db.First(&entrada, "number = ?", "ENT-"+f.suffix).Error; err != nil {
		t.Fatalf("reload entrada: %v", err)
	}
	if entrada.Status != model.EntradaRegistered {
		t.Fatalf("expected entrada still REGISTRADA, got %s", entrada.Status)
	}
	var order model.PurchaseOrder
	if err := db.First(&order, "id = ?", f.order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != model.OrderPending {
		t.Fatalf("expected order still PENDIENTE, got %s", order.Status)
	}
}

func TestCommit_UnknownWarehouseRollsBackEveryMutation(t *testing.T) {
	db, svc := setupPostingDB(t)
	f := seedPostingFixture(t, db, 100, 10)
	entrada := f.newEntrada(t, db, 100)
	entrada.DestWarehouseRef = "ALM-NO-EXISTE"
	if err := db.Save(entrada).Error; err != nil {
		t.Fatalf("update entrada: %v", err)
	}
	auditor := service.AuditorIdentity{ID: "auditor-1", Name: "Ana Auditor", Email: "ana@local"}

	_, err := svc.Commit("ENT-"+f.suffix, auditor, "")
	if !errors.Is(err, service.ErrInconsistentReference) {
		t.Fatalf("expected ErrInconsistentReference, got %v", err)
	}

	// The order transition and stock increment ran before the warehouse
	// lookup inside the transaction; all of it must be rolled back.
	if stock := f.currentStock(t, db); stock != 10 {
		t.Fatalf("rollback must restore stock, got %d", stock)
	}
	var order model.PurchaseOrder
	if err := db.First(&order, "id = ?", f.order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != model.OrderPending {
		t.Fatalf("rollback must restore order to PENDIENTE, got %s", order.Status)
	}
	var reloaded model.Entrada
	if err := db.First(&reloaded, "id = ?", entrada.ID).Error; err != nil {
		t.Fatalf("reload entrada: %v", err)
	}
	if reloaded.Status != model.EntradaRegistered {
		t.Fatalf("rollback must leave entrada REGISTRADA, got %s", reloaded.Status)
	}
}

func TestReject_WritesTerminalStateWithAuditTrail(t *testing.T) {
	db, svc := setupPostingDB(t)
	f := seedPostingFixture(t, db, 100, 10)
	entrada := f.newEntrada(t, db, 100)
	auditor := service.AuditorIdentity{ID: "auditor-2", Name: "Beto Auditor", Email: "beto@local"}

	rejected, err := svc.Reject("ENT-"+f.suffix, auditor, "sin documentos de soporte")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.EntradaRejected {
		t.Fatalf("expected RECHAZADA, got %s", rejected.Status)
	}

	events, err := repository.NewAuditEventRepo(db).FindByDocument(entrada.ID)
	if err != nil {
		t.Fatalf("load events: %v", err)
	}
	found := false
	for _, ev := range events {
		if ev.Action == "entrada_rechazada" && ev.NewState == string(model.EntradaRejected) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an entrada_rechazada audit event alongside the rejection")
	}

	if _, err := svc.Reject("ENT-"+f.suffix, auditor, "otra vez"); !errors.Is(err, service.ErrAlreadyProcessed) {
		t.Fatalf("second reject: expected ErrAlreadyProcessed, got %v", err)
	}

	if stock := f.currentStock(t, db); stock != 10 {
		t.Fatalf("rejection must not touch stock, got %d", stock)
	}
}
