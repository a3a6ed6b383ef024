package audit

import (
	"fmt"

	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Policy constants. These are design constants, not configuration.
const (
	// A compra entrega later than this many days after the order date is
	// flagged as late; a traspaso in transit longer than SlowTransferDays
	// is flagged as slow.
	LateDeliveryDays = 30
	SlowTransferDays = 7

	// Shortfall above this percentage of the ordered quantity is critical.
	CriticalShortfallPct = 50

	// Unit price deviation bands, relative to the order price.
	PriceImportantPct = 15
	PriceMinorPct     = 5
)

// Context carries one entrada and its resolved counterpart through the rule
// table. All Document Store lookups happen before evaluation; the checks
// themselves are pure.
//
// Exactly one of Order / Traspaso is set, matching Entrada.Kind. Supplier
// and warehouse references arrive already resolved to uuids; uuid.Nil means
// the reference could not be resolved.
type Context struct {
	Entrada  *model.Entrada
	Order    *model.PurchaseOrder
	Traspaso *model.Traspaso

	SupplierID            uuid.UUID // resolved from Entrada.SupplierRef
	CounterpartSupplierID uuid.UUID
	SourceWarehouseID     uuid.UUID
	DestWarehouseID       uuid.UUID
}

// Check is one entry of the rule table. Run returns the finding (nil when
// the check passes silently) and whether the check was applicable at all;
// skipped checks do not count toward compliance.
type Check struct {
	Code string
	Run  func(ctx *Context) (*Finding, bool)
}

// ChecksFor returns the ordered rule table for an entrada kind. Compras
// tolerate partial and priced deliveries; traspasos are strict equality:
// same organization, same stock, no commercial slack. The asymmetry is
// business policy, not duplication.
func ChecksFor(kind model.EntradaKind) []Check {
	if kind == model.EntradaTraspaso {
		return traspasoChecks
	}
	return compraChecks
}

var compraChecks = []Check{
	{Code: "proveedor", Run: checkCompraSupplier},
	{Code: "cantidad", Run: checkCompraQuantity},
	{Code: "fechas", Run: checkCompraDates},
	{Code: "estado_orden", Run: checkOrderState},
	{Code: "precio", Run: checkUnitPrice},
}

var traspasoChecks = []Check{
	{Code: "perfume", Run: checkTraspasoPerfume},
	{Code: "proveedor", Run: checkTraspasoSupplier},
	{Code: "cantidad", Run: checkTraspasoQuantity},
	{Code: "fechas", Run: checkTraspasoDates},
	{Code: "almacenes", Run: checkWarehouses},
	{Code: "estado_traspaso", Run: checkTraspasoState},
}

// ---- compra checks ----

func checkCompraSupplier(ctx *Context) (*Finding, bool) {
	if ctx.SupplierID != uuid.Nil && ctx.SupplierID == ctx.CounterpartSupplierID {
		return confirmation("proveedor", "El proveedor coincide con la orden de compra", nil), true
	}
	return &Finding{
		Code:     "proveedor_distinto",
		Severity: SeverityCritical,
		Category: CategoryDiscrepancy,
		Title:    "El proveedor de la entrada no coincide con el de la orden",
		Detail: map[string]interface{}{
			"proveedor_entrada": ctx.Entrada.SupplierRef,
			"proveedor_orden":   ctx.CounterpartSupplierID.String(),
		},
		CanContinue: false,
		Remediation: []string{
			"Verificar la remisión física contra la orden de compra",
			"Corregir el proveedor de la entrada o rechazarla",
		},
	}, true
}

func checkCompraQuantity(ctx *Context) (*Finding, bool) {
	received := ctx.Entrada.Quantity
	ordered := ctx.Order.Quantity

	switch {
	case received > ordered:
		return &Finding{
			Code:     "cantidad_exceso",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "Se recibió más cantidad de la ordenada",
			Detail: map[string]interface{}{
				"cantidad_recibida": received,
				"cantidad_ordenada": ordered,
				"exceso":            received - ordered,
			},
			CanContinue: false,
			Remediation: []string{
				"Confirmar el conteo físico",
				"Devolver el excedente o solicitar orden complementaria",
			},
		}, true

	case received < ordered:
		shortfall := ordered - received
		pct := float64(shortfall) / float64(ordered) * 100
		if shortfall*100 > CriticalShortfallPct*ordered {
			// Severe shortfall. Still marked continuable: the business may
			// accept it as a partial delivery, but the verdict stays
			// rejected at this severity.
			return &Finding{
				Code:     "faltante_critico",
				Severity: SeverityCritical,
				Category: CategoryDiscrepancy,
				Title:    "Faltante crítico respecto a la cantidad ordenada",
				Detail: map[string]interface{}{
					"cantidad_recibida": received,
					"cantidad_ordenada": ordered,
					"faltante":          shortfall,
					"faltante_pct":      fmt.Sprintf("%.1f%%", pct),
				},
				CanContinue: true,
				Remediation: []string{
					"Reclamar el faltante al proveedor",
					"Registrar como entrega parcial si gerencia lo autoriza",
				},
			}, true
		}
		return &Finding{
			Code:     "entrega_parcial",
			Severity: SeverityMinor,
			Category: CategoryWarning,
			Title:    "Entrega parcial",
			Detail: map[string]interface{}{
				"cantidad_recibida": received,
				"cantidad_ordenada": ordered,
				"faltante":          shortfall,
				"faltante_pct":      fmt.Sprintf("%.1f%%", pct),
			},
			CanContinue: true,
			Remediation: []string{"Documentar el faltante pendiente con el proveedor"},
		}, true

	default:
		return confirmation("cantidad", "La cantidad recibida coincide con la ordenada",
			map[string]interface{}{"cantidad": received}), true
	}
}

func checkCompraDates(ctx *Context) (*Finding, bool) {
	receipt := ctx.Entrada.ReceiptDate
	order := ctx.Order.OrderDate

	if receipt.Before(order) {
		return &Finding{
			Code:     "fecha_imposible",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "La fecha de recepción es anterior a la fecha de la orden",
			Detail: map[string]interface{}{
				"fecha_recepcion": receipt.Format("2006-01-02"),
				"fecha_orden":     order.Format("2006-01-02"),
			},
			CanContinue: false,
			Remediation: []string{"Corregir la fecha de recepción capturada"},
		}, true
	}

	days := int(receipt.Sub(order).Hours() / 24)
	if days > LateDeliveryDays {
		return &Finding{
			Code:     "entrega_tardia",
			Severity: SeverityMinor,
			Category: CategoryWarning,
			Title:    "Entrega tardía",
			Detail: map[string]interface{}{
				"dias_transcurridos": days,
				"limite_dias":        LateDeliveryDays,
			},
			CanContinue: true,
			Remediation: []string{"Registrar la demora para evaluación del proveedor"},
		}, true
	}

	return confirmation("fechas", "Fechas coherentes",
		map[string]interface{}{"dias_transcurridos": days}), true
}

func checkOrderState(ctx *Context) (*Finding, bool) {
	switch ctx.Order.Status {
	case model.OrderCompleted:
		return &Finding{
			Code:     "orden_ya_procesada",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "La orden de compra ya fue completada",
			Detail: map[string]interface{}{
				"numero_orden": ctx.Order.Number,
				"estado":       string(ctx.Order.Status),
			},
			CanContinue: false,
			Remediation: []string{
				"Posible registro duplicado: verificar entradas previas contra esta orden",
			},
		}, true
	case model.OrderCancelled:
		return &Finding{
			Code:     "orden_cancelada",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "La orden de compra está cancelada",
			Detail: map[string]interface{}{
				"numero_orden": ctx.Order.Number,
				"estado":       string(ctx.Order.Status),
			},
			CanContinue: false,
			Remediation: []string{"Rechazar la entrada o reactivar la orden con compras"},
		}, true
	default:
		return confirmation("estado_orden", "La orden está vigente",
			map[string]interface{}{"estado": string(ctx.Order.Status)}), true
	}
}

// checkUnitPrice only runs when both documents carry a price.
func checkUnitPrice(ctx *Context) (*Finding, bool) {
	if ctx.Entrada.UnitPrice == nil || !ctx.Order.UnitPrice.IsPositive() {
		return nil, false
	}

	orderPrice := ctx.Order.UnitPrice
	entradaPrice := *ctx.Entrada.UnitPrice
	pct := entradaPrice.Sub(orderPrice).Abs().
		Div(orderPrice).
		Mul(decimal.NewFromInt(100))

	detail := map[string]interface{}{
		"precio_entrada":  entradaPrice.StringFixed(2),
		"precio_orden":    orderPrice.StringFixed(2),
		"diferencia_pct":  pct.StringFixed(1),
	}

	switch {
	case pct.GreaterThan(decimal.NewFromInt(PriceImportantPct)):
		return &Finding{
			Code:        "precio_divergente",
			Severity:    SeverityImportant,
			Category:    CategoryWarning,
			Title:       "Diferencia de precio unitario relevante",
			Detail:      detail,
			CanContinue: true,
			Remediation: []string{"Turnar a facturación para revisión antes del pago"},
		}, true
	case pct.GreaterThanOrEqual(decimal.NewFromInt(PriceMinorPct)):
		return &Finding{
			Code:        "precio_desviado",
			Severity:    SeverityMinor,
			Category:    CategoryWarning,
			Title:       "Desviación menor de precio unitario",
			Detail:      detail,
			CanContinue: true,
		}, true
	default:
		// Under 5% is noise; no finding.
		return nil, true
	}
}

// ---- traspaso checks ----

func checkTraspasoPerfume(ctx *Context) (*Finding, bool) {
	if ctx.Entrada.PerfumeID == ctx.Traspaso.PerfumeID {
		return confirmation("perfume", "El perfume coincide con el traspaso", nil), true
	}
	return &Finding{
		Code:     "perfume_distinto",
		Severity: SeverityCritical,
		Category: CategoryDiscrepancy,
		Title:    "El perfume de la entrada no coincide con el del traspaso",
		Detail: map[string]interface{}{
			"perfume_entrada":  ctx.Entrada.PerfumeID.String(),
			"perfume_traspaso": ctx.Traspaso.PerfumeID.String(),
		},
		CanContinue: false,
		Remediation: []string{"Verificar la mercancía física contra el traspaso"},
	}, true
}

func checkTraspasoSupplier(ctx *Context) (*Finding, bool) {
	if ctx.SupplierID != uuid.Nil && ctx.SupplierID == ctx.CounterpartSupplierID {
		return confirmation("proveedor", "El proveedor coincide con el traspaso", nil), true
	}
	return &Finding{
		Code:     "proveedor_distinto",
		Severity: SeverityCritical,
		Category: CategoryDiscrepancy,
		Title:    "El proveedor de la entrada no coincide con el del traspaso",
		Detail: map[string]interface{}{
			"proveedor_entrada":  ctx.Entrada.SupplierRef,
			"proveedor_traspaso": ctx.Traspaso.SupplierRef,
		},
		CanContinue: false,
		Remediation: []string{"Corregir el proveedor de la entrada o rechazarla"},
	}, true
}

// checkTraspasoQuantity is a strict equality check: internal movements have
// no commercial slack, any difference means stock went missing or appeared.
func checkTraspasoQuantity(ctx *Context) (*Finding, bool) {
	received := ctx.Entrada.Quantity
	sent := ctx.Traspaso.Quantity

	if received == sent {
		return confirmation("cantidad", "La cantidad recibida coincide con la enviada",
			map[string]interface{}{"cantidad": received}), true
	}

	kind := "FALTANTE"
	code := "cantidad_faltante"
	title := "Se recibió menos cantidad de la enviada"
	if received > sent {
		kind = "EXCESO"
		code = "cantidad_exceso"
		title = "Se recibió más cantidad de la enviada"
	}
	return &Finding{
		Code:     code,
		Severity: SeverityCritical,
		Category: CategoryDiscrepancy,
		Title:    title,
		Detail: map[string]interface{}{
			"cantidad_recibida": received,
			"cantidad_enviada":  sent,
			"tipo_diferencia":   kind,
			"diferencia":        abs(received - sent),
		},
		CanContinue: false,
		Remediation: []string{
			"Levantar acta de diferencia de inventario",
			"Notificar al almacén de origen",
		},
	}, true
}

func checkTraspasoDates(ctx *Context) (*Finding, bool) {
	receipt := ctx.Entrada.ReceiptDate
	departure := ctx.Traspaso.DepartureDate

	if receipt.Before(departure) {
		return &Finding{
			Code:     "fecha_imposible",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "La fecha de recepción es anterior a la salida del traspaso",
			Detail: map[string]interface{}{
				"fecha_recepcion": receipt.Format("2006-01-02"),
				"fecha_salida":    departure.Format("2006-01-02"),
			},
			CanContinue: false,
			Remediation: []string{"Corregir la fecha de recepción capturada"},
		}, true
	}

	days := int(receipt.Sub(departure).Hours() / 24)
	if days > SlowTransferDays {
		return &Finding{
			Code:     "traspaso_lento",
			Severity: SeverityMinor,
			Category: CategoryWarning,
			Title:    "Traspaso en tránsito más tiempo del esperado",
			Detail: map[string]interface{}{
				"dias_transito": days,
				"limite_dias":   SlowTransferDays,
			},
			CanContinue: true,
		}, true
	}

	return confirmation("fechas", "Fechas coherentes",
		map[string]interface{}{"dias_transito": days}), true
}

func checkWarehouses(ctx *Context) (*Finding, bool) {
	if ctx.SourceWarehouseID == uuid.Nil || ctx.DestWarehouseID == uuid.Nil {
		return &Finding{
			Code:     "almacen_no_resuelto",
			Severity: SeverityImportant,
			Category: CategoryWarning,
			Title:    "No se pudo resolver la referencia de almacén",
			Detail: map[string]interface{}{
				"almacen_origen":  ctx.Entrada.SourceWarehouseRef,
				"almacen_destino": ctx.Entrada.DestWarehouseRef,
			},
			CanContinue: true,
			Remediation: []string{"Corregir la referencia de almacén antes de validar"},
		}, true
	}
	if ctx.SourceWarehouseID == ctx.DestWarehouseID {
		return &Finding{
			Code:     "almacenes_iguales",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "El almacén de origen y destino son el mismo",
			Detail: map[string]interface{}{
				"almacen": ctx.DestWarehouseID.String(),
			},
			CanContinue: false,
			Remediation: []string{"Un traspaso debe mover stock entre almacenes distintos"},
		}, true
	}
	return confirmation("almacenes", "Almacenes de origen y destino distintos", nil), true
}

func checkTraspasoState(ctx *Context) (*Finding, bool) {
	switch ctx.Traspaso.Status {
	case model.TraspasoRejected:
		return &Finding{
			Code:     "traspaso_rechazado",
			Severity: SeverityCritical,
			Category: CategoryDiscrepancy,
			Title:    "El traspaso fue rechazado en origen",
			Detail: map[string]interface{}{
				"numero_traspaso": ctx.Traspaso.Number,
				"estado":          string(ctx.Traspaso.Status),
			},
			CanContinue: false,
			Remediation: []string{"Rechazar la entrada; la mercancía no debió salir"},
		}, true
	case model.TraspasoValidated:
		// The posting engine re-checks terminal state under lock, so a
		// duplicate here is advisory, not blocking.
		return &Finding{
			Code:     "posible_duplicado",
			Severity: SeverityMinor,
			Category: CategoryWarning,
			Title:    "El traspaso ya fue validado anteriormente",
			Detail: map[string]interface{}{
				"numero_traspaso": ctx.Traspaso.Number,
				"estado":          string(ctx.Traspaso.Status),
			},
			CanContinue: true,
			Remediation: []string{"Verificar que no exista una entrada previa por este traspaso"},
		}, true
	default:
		return confirmation("estado_traspaso", "El traspaso está pendiente de recepción",
			map[string]interface{}{"estado": string(ctx.Traspaso.Status)}), true
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
