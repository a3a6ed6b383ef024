package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-perfumeria-ws/internal/audit"
	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Error taxonomy for the reconciliation engine. During inspection a missing
// counterpart degrades into a CRITICAL finding; during posting every one of
// these is fatal to the operation and surfaced verbatim.
var (
	ErrEntradaNotFound       = errors.New("entrada not found")
	ErrCounterpartNotFound   = errors.New("backing commercial document not found")
	ErrPerfumeNotFound       = errors.New("perfume not found")
	ErrAlreadyProcessed      = errors.New("document already processed")
	ErrValidationBlocked     = errors.New("verdict is REJECTED, posting refused")
	ErrInconsistentReference = errors.New("reference could not be resolved")
)

// AuditorIdentity is threaded through posting so every mutation carries who
// did it, instead of burying the actor inside note strings.
type AuditorIdentity struct {
	ID    string
	Name  string
	Email string
}

// PostingResult summarizes the committed effects of one validation.
type PostingResult struct {
	EntradaNumber     string            `json:"numero_entrada"`
	Kind              model.EntradaKind `json:"tipo"`
	CounterpartNumber string            `json:"documento_respaldo"`
	NewStock          int               `json:"stock_resultante"`
	ValidatedAt       time.Time         `json:"validado_en"`
	Verdict           *audit.Verdict    `json:"veredicto"`
}

type AuditService interface {
	// Inspect is the read-only path: resolve the counterpart, run the rule
	// table, return the verdict. Never mutates anything.
	Inspect(entradaNumber string) (*audit.Verdict, error)
	// Commit re-inspects and, if the verdict allows it, applies the three
	// document mutations atomically.
	Commit(entradaNumber string, auditor AuditorIdentity, notes string) (*PostingResult, error)
	// Reject marks an entrada as rejected by auditor decision.
	Reject(entradaNumber string, auditor AuditorIdentity, notes string) (*model.Entrada, error)
	// History returns the recorded state transitions for an entrada.
	History(entradaNumber string) ([]model.AuditEvent, error)
}

type auditService struct {
	entradaRepo   repository.EntradaRepository
	orderRepo     repository.OrderRepository
	traspasoRepo  repository.TraspasoRepository
	perfumeRepo   repository.PerfumeRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	eventRepo     repository.AuditEventRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewAuditService(
	entradaRepo repository.EntradaRepository,
	orderRepo repository.OrderRepository,
	traspasoRepo repository.TraspasoRepository,
	perfumeRepo repository.PerfumeRepository,
	supplierRepo repository.SupplierRepository,
	warehouseRepo repository.WarehouseRepository,
	eventRepo repository.AuditEventRepository,
	db *gorm.DB,
	hub *ws.Hub,
) AuditService {
	return &auditService{
		entradaRepo:   entradaRepo,
		orderRepo:     orderRepo,
		traspasoRepo:  traspasoRepo,
		perfumeRepo:   perfumeRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		eventRepo:     eventRepo,
		db:            db,
		wsHub:         hub,
	}
}

// ---- resolver ----

// resolveOrder locates the purchase order backing a COMPRA entrada. The
// uuid link is the primary path; the textual order number is a
// compatibility shim for records created before the schema migration.
func (s *auditService) resolveOrder(e *model.Entrada) (*model.PurchaseOrder, error) {
	if e.OrderID != nil {
		if order, err := s.orderRepo.FindByID(*e.OrderID); err == nil {
			return order, nil
		}
	}
	if e.OrderNumber != "" {
		return s.orderRepo.FindByNumber(e.OrderNumber)
	}
	return nil, gorm.ErrRecordNotFound
}

// resolveTraspaso locates the traspaso backing a TRASPASO entrada. Old
// records left TransferNumber empty and reused the entrada number as the
// traspaso number.
func (s *auditService) resolveTraspaso(e *model.Entrada) (*model.Traspaso, error) {
	number := e.TransferNumber
	if number == "" {
		number = e.Number
	}
	return s.traspasoRepo.FindByNumber(number)
}

// resolveSupplierID normalizes a stored supplier reference (uuid or legacy
// name) to an id. uuid.Nil means unresolvable.
func (s *auditService) resolveSupplierID(raw string) uuid.UUID {
	ref := audit.ParseRef(raw)
	if ref.ByID() {
		return ref.ID
	}
	if ref.Name != "" {
		if supplier, err := s.supplierRepo.FindByName(ref.Name); err == nil {
			return supplier.ID
		}
	}
	return uuid.Nil
}

// resolveWarehouseID normalizes a stored warehouse reference (uuid or
// legacy code) to an id.
func (s *auditService) resolveWarehouseID(raw string) uuid.UUID {
	ref := audit.ParseRef(raw)
	if ref.ByID() {
		return ref.ID
	}
	if ref.Name != "" {
		if warehouse, err := s.warehouseRepo.FindByCode(ref.Name); err == nil {
			return warehouse.ID
		}
	}
	return uuid.Nil
}

// buildContext resolves the counterpart and all union references for one
// entrada. Returns ErrCounterpartNotFound when no backing document exists.
func (s *auditService) buildContext(e *model.Entrada) (*audit.Context, error) {
	ctx := &audit.Context{
		Entrada:    e,
		SupplierID: s.resolveSupplierID(e.SupplierRef),
	}

	if e.Kind == model.EntradaTraspaso {
		traspaso, err := s.resolveTraspaso(e)
		if err != nil {
			return nil, ErrCounterpartNotFound
		}
		ctx.Traspaso = traspaso
		ctx.CounterpartSupplierID = s.resolveSupplierID(traspaso.SupplierRef)
		ctx.SourceWarehouseID = traspaso.SourceWarehouseID
		ctx.DestWarehouseID = s.resolveWarehouseID(e.DestWarehouseRef)
		return ctx, nil
	}

	order, err := s.resolveOrder(e)
	if err != nil {
		return nil, ErrCounterpartNotFound
	}
	ctx.Order = order
	ctx.CounterpartSupplierID = order.SupplierID
	return ctx, nil
}

// ---- inspection ----

func (s *auditService) Inspect(entradaNumber string) (*audit.Verdict, error) {
	entrada, err := s.entradaRepo.FindByNumber(entradaNumber)
	if err != nil {
		return nil, ErrEntradaNotFound
	}

	ctx, err := s.buildContext(entrada)
	if errors.Is(err, ErrCounterpartNotFound) {
		// Degrade: the auditor still gets a full (rejected) verdict.
		return audit.EvaluateMissingCounterpart(entrada), nil
	}
	if err != nil {
		return nil, err
	}

	return audit.Evaluate(ctx), nil
}

// ---- posting engine ----

func (s *auditService) Commit(entradaNumber string, auditor AuditorIdentity, notes string) (*PostingResult, error) {
	// 1. Load the entrada
	entrada, err := s.entradaRepo.FindByNumber(entradaNumber)
	if err != nil {
		return nil, ErrEntradaNotFound
	}

	// 2. Receipt-level idempotency guard: a validated entrada is immutable
	if entrada.Status == model.EntradaValidated {
		return nil, ErrAlreadyProcessed
	}
	if entrada.Status == model.EntradaRejected {
		return nil, fmt.Errorf("%w: la entrada fue rechazada", ErrValidationBlocked)
	}

	// 3. Re-run the inspection; during posting a missing counterpart is fatal
	ctx, err := s.buildContext(entrada)
	if err != nil {
		return nil, err
	}
	verdict := audit.Evaluate(ctx)
	if !verdict.Postable() {
		return nil, fmt.Errorf("%w: %s", ErrValidationBlocked, verdict.RecommendedAction)
	}

	// 4. Apply the compensating mutations as one transaction
	var result *PostingResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var counterpartNumber string

		// 4a. Counterpart transition, re-checked under lock. This is the
		// sole concurrency control against a double-submit racing between
		// inspection and commit.
		if entrada.Kind == model.EntradaTraspaso {
			var traspaso model.Traspaso
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&traspaso, "id = ?", ctx.Traspaso.ID).Error; err != nil {
				return ErrCounterpartNotFound
			}
			if traspaso.Status == model.TraspasoValidated {
				return ErrAlreadyProcessed
			}
			prior := traspaso.Status
			traspaso.Status = model.TraspasoValidated
			traspaso.ValidatedBy = &auditor.ID
			traspaso.ValidatedAt = &now
			traspaso.UpdatedBy = auditor.ID
			if err := tx.Save(&traspaso).Error; err != nil {
				return err
			}
			counterpartNumber = traspaso.Number
			if err := s.eventRepo.Create(tx, &model.AuditEvent{
				Actor:        auditor.ID,
				Action:       "traspaso_validado",
				DocumentType: "traspaso",
				DocumentID:   traspaso.ID,
				PriorState:   string(prior),
				NewState:     string(model.TraspasoValidated),
				Note:         fmt.Sprintf("Validado contra entrada %s por %s", entrada.Number, auditor.Name),
			}); err != nil {
				return err
			}
		} else {
			var order model.PurchaseOrder
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&order, "id = ?", ctx.Order.ID).Error; err != nil {
				return ErrCounterpartNotFound
			}
			if !order.Status.Postable() {
				return ErrAlreadyProcessed
			}
			prior := order.Status
			order.Status = model.OrderCompleted
			order.ReceivedBy = &auditor.ID
			order.ReceivedAt = &now
			order.UpdatedBy = auditor.ID
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			counterpartNumber = order.Number
			if err := s.eventRepo.Create(tx, &model.AuditEvent{
				Actor:        auditor.ID,
				Action:       "orden_completada",
				DocumentType: "orden_compra",
				DocumentID:   order.ID,
				PriorState:   string(prior),
				NewState:     string(model.OrderCompleted),
				Note:         fmt.Sprintf("Completada contra entrada %s por %s", entrada.Number, auditor.Name),
			}); err != nil {
				return err
			}
		}

		// 4b. Stock increment, under lock. Addition only, never overwrite.
		var perfume model.Perfume
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&perfume, "id = ?", entrada.PerfumeID).Error; err != nil {
			return ErrPerfumeNotFound
		}
		if err := s.perfumeRepo.AddStock(tx, perfume.ID, entrada.Quantity, auditor.ID); err != nil {
			return err
		}
		newStock := perfume.Stock + entrada.Quantity

		if err := s.eventRepo.Create(tx, &model.AuditEvent{
			Actor:        auditor.ID,
			Action:       "stock_incrementado",
			DocumentType: "perfume",
			DocumentID:   perfume.ID,
			PriorState:   fmt.Sprintf("%d", perfume.Stock),
			NewState:     fmt.Sprintf("%d", newStock),
			Note:         fmt.Sprintf("Entrada %s: +%d unidades", entrada.Number, entrada.Quantity),
		}); err != nil {
			return err
		}

		// 4c. Normalize the destination warehouse reference to an id before
		// saving. Unresolvable is fatal: no partial commit.
		destRef := audit.ParseRef(entrada.DestWarehouseRef)
		if !destRef.ByID() {
			var warehouse model.Warehouse
			if err := tx.First(&warehouse, "code = ?", destRef.Name).Error; err != nil {
				return fmt.Errorf("%w: almacen destino %q", ErrInconsistentReference, entrada.DestWarehouseRef)
			}
			entrada.DestWarehouseRef = warehouse.ID.String()
		}

		// 4d. Entrada transition to its terminal state
		prior := entrada.Status
		entrada.Status = model.EntradaValidated
		entrada.ValidatedBy = &auditor.ID
		entrada.ValidatedAt = &now
		entrada.AuditorNotes = notes
		entrada.UpdatedBy = auditor.ID
		if err := tx.Save(entrada).Error; err != nil {
			return err
		}
		if err := s.eventRepo.Create(tx, &model.AuditEvent{
			Actor:        auditor.ID,
			Action:       "entrada_validada",
			DocumentType: "entrada",
			DocumentID:   entrada.ID,
			PriorState:   string(prior),
			NewState:     string(model.EntradaValidated),
			Note:         notes,
		}); err != nil {
			return err
		}

		result = &PostingResult{
			EntradaNumber:     entrada.Number,
			Kind:              entrada.Kind,
			CounterpartNumber: counterpartNumber,
			NewStock:          newStock,
			ValidatedAt:       now,
			Verdict:           verdict,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"entrada":     result.EntradaNumber,
		"tipo":        result.Kind,
		"respaldo":    result.CounterpartNumber,
		"stock_nuevo": result.NewStock,
		"auditor":     auditor.ID,
	}).Info("entrada posted")

	go s.notifyValidated(entrada, result, auditor)

	return result, nil
}

func (s *auditService) Reject(entradaNumber string, auditor AuditorIdentity, notes string) (*model.Entrada, error) {
	entrada, err := s.entradaRepo.FindByNumber(entradaNumber)
	if err != nil {
		return nil, ErrEntradaNotFound
	}
	if entrada.Status != model.EntradaRegistered {
		return nil, ErrAlreadyProcessed
	}

	now := time.Now()
	prior := entrada.Status
	entrada.Status = model.EntradaRejected
	entrada.ValidatedBy = &auditor.ID
	entrada.ValidatedAt = &now
	entrada.AuditorNotes = notes
	entrada.UpdatedBy = auditor.ID

	// Rejection and its audit trail land together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entrada).Error; err != nil {
			return err
		}
		return s.eventRepo.Create(tx, &model.AuditEvent{
			Actor:        auditor.ID,
			Action:       "entrada_rechazada",
			DocumentType: "entrada",
			DocumentID:   entrada.ID,
			PriorState:   string(prior),
			NewState:     string(model.EntradaRejected),
			Note:         notes,
		})
	})
	if err != nil {
		return nil, err
	}

	go s.notifyRejected(entrada, auditor)

	return entrada, nil
}

func (s *auditService) History(entradaNumber string) ([]model.AuditEvent, error) {
	entrada, err := s.entradaRepo.FindByNumber(entradaNumber)
	if err != nil {
		return nil, ErrEntradaNotFound
	}
	return s.eventRepo.FindByDocument(entrada.ID)
}

// ---- websocket notifications ----

func (s *auditService) notifyValidated(entrada *model.Entrada, result *PostingResult, auditor AuditorIdentity) {
	payload := map[string]interface{}{
		"type":   "entrada_update",
		"action": "entrada_validada",
		"entrada": map[string]interface{}{
			"numero":      result.EntradaNumber,
			"tipo":        result.Kind,
			"respaldo":    result.CounterpartNumber,
			"stock_nuevo": result.NewStock,
		},
		"auditor": map[string]interface{}{
			"id":   auditor.ID,
			"name": auditor.Name,
		},
		"message": fmt.Sprintf("%s validó la entrada %s", auditor.Name, result.EntradaNumber),
	}
	msg, _ := json.Marshal(payload)
	s.wsHub.Broadcast <- msg

	// Targeted notice for whoever registered the entrada
	if entrada.RegisteredByUserID != nil {
		s.wsHub.SendToUsers([]string{*entrada.RegisteredByUserID}, msg)
	}
}

func (s *auditService) notifyRejected(entrada *model.Entrada, auditor AuditorIdentity) {
	payload := map[string]interface{}{
		"type":   "entrada_update",
		"action": "entrada_rechazada",
		"entrada": map[string]interface{}{
			"numero": entrada.Number,
			"notas":  entrada.AuditorNotes,
		},
		"message": fmt.Sprintf("%s rechazó la entrada %s", auditor.Name, entrada.Number),
	}
	msg, _ := json.Marshal(payload)
	s.wsHub.Broadcast <- msg

	if entrada.RegisteredByUserID != nil {
		s.wsHub.SendToUsers([]string{*entrada.RegisteredByUserID}, msg)
	}
}
