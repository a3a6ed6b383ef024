package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type stubSupplierService struct {
	suppliers []model.Supplier
	createErr error
	getErr    error
}

func (s *stubSupplierService) Create(req *model.Supplier, userID string) error { return s.createErr }

func (s *stubSupplierService) GetAll() ([]model.Supplier, error) { return s.suppliers, s.getErr }

type stubWarehouseService struct {
	warehouses []model.Warehouse
	createErr  error
	getErr     error
}

func (s *stubWarehouseService) Create(req *model.Warehouse, userID string) error { return s.createErr }

func (s *stubWarehouseService) GetAll() ([]model.Warehouse, error) { return s.warehouses, s.getErr }

func newCatalogTestApp(supplierStub *stubSupplierService, warehouseStub *stubWarehouseService) *fiber.App {
	app := fiber.New()
	sh := NewSupplierHandler(supplierStub)
	wh := NewWarehouseHandler(warehouseStub)
	app.Get("/proveedores", sh.GetSuppliers)
	app.Post("/proveedores", sh.CreateSupplier)
	app.Get("/almacenes", wh.GetWarehouses)
	app.Post("/almacenes", wh.CreateWarehouse)
	return app
}

func TestCreateSupplier_Created(t *testing.T) {
	app := newCatalogTestApp(&stubSupplierService{}, &stubWarehouseService{})

	req := httptest.NewRequest(http.MethodPost, "/proveedores",
		strings.NewReader(`{"nombre":"Esencias del Norte","rfc":"EDN010101AAA"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestCreateSupplier_DuplicateName(t *testing.T) {
	app := newCatalogTestApp(&stubSupplierService{createErr: service.ErrSupplierNameExists}, &stubWarehouseService{})

	req := httptest.NewRequest(http.MethodPost, "/proveedores",
		strings.NewReader(`{"nombre":"Esencias del Norte"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetSuppliers_ReturnsList(t *testing.T) {
	stub := &stubSupplierService{suppliers: []model.Supplier{
		{Name: "Aromas SA"},
		{Name: "Esencias del Norte"},
	}}
	app := newCatalogTestApp(stub, &stubWarehouseService{})

	req := httptest.NewRequest(http.MethodGet, "/proveedores", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body []model.Supplier
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(body))
	}
	if body[0].Name != "Aromas SA" {
		t.Fatalf("expected Aromas SA first, got %s", body[0].Name)
	}
}

func TestCreateWarehouse_DuplicateCode(t *testing.T) {
	app := newCatalogTestApp(&stubSupplierService{}, &stubWarehouseService{createErr: service.ErrWarehouseCodeExists})

	req := httptest.NewRequest(http.MethodPost, "/almacenes",
		strings.NewReader(`{"codigo":"ALM-NORTE","nombre":"Almacén Norte"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetWarehouses_ReturnsList(t *testing.T) {
	stub := &stubWarehouseService{warehouses: []model.Warehouse{
		{Code: "ALM-CENTRO", Name: "Almacén Centro"},
	}}
	app := newCatalogTestApp(&stubSupplierService{}, stub)

	req := httptest.NewRequest(http.MethodGet, "/almacenes", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body []model.Warehouse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].Code != "ALM-CENTRO" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
