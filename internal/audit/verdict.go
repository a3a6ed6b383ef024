package audit

import (
	"math"
	"sort"

	"go-perfumeria-ws/internal/model"
)

type VerdictStatus string

const (
	VerdictApproved         VerdictStatus = "APPROVED"
	VerdictConditional      VerdictStatus = "CONDITIONAL"
	VerdictManagementReview VerdictStatus = "REQUIRES_MANAGEMENT_REVIEW"
	VerdictRejected         VerdictStatus = "REJECTED"
)

type RiskLevel string

const (
	RiskHigh      RiskLevel = "HIGH"
	RiskMedium    RiskLevel = "MEDIUM"
	RiskMediumLow RiskLevel = "MEDIUM_LOW"
	RiskLow       RiskLevel = "LOW"
)

// Verdict is the aggregate disposition for one entrada. Derived, never
// persisted; only the posting engine's effects are.
type Verdict struct {
	EntradaNumber     string            `json:"numero_entrada"`
	Kind              model.EntradaKind `json:"tipo"`
	Status            VerdictStatus     `json:"estado_general"`
	RecommendedAction string            `json:"accion_recomendada"`
	CompliancePct     int               `json:"porcentaje_cumplimiento"`
	RiskLevel         RiskLevel         `json:"nivel_riesgo"`
	ChecksRun         int               `json:"controles_ejecutados"`
	ChecksPassed      int               `json:"controles_superados"`
	Discrepancies     []Finding         `json:"discrepancias"`
	Warnings          []Finding         `json:"advertencias"`
	Confirmations     []Finding         `json:"confirmaciones"`
	// All findings ordered by severity tier, stable by detection order.
	Findings []Finding `json:"hallazgos"`
}

// Postable reports whether the posting engine may act on this verdict.
func (v *Verdict) Postable() bool {
	return v.Status != VerdictRejected
}

// Evaluate runs the rule table for the entrada's kind and reduces the
// findings to a verdict. Pure; the context must arrive fully resolved.
func Evaluate(ctx *Context) *Verdict {
	v := &Verdict{
		EntradaNumber: ctx.Entrada.Number,
		Kind:          ctx.Entrada.Kind,
	}

	for _, check := range ChecksFor(ctx.Entrada.Kind) {
		finding, ran := check.Run(ctx)
		if !ran {
			continue
		}
		v.ChecksRun++
		if finding == nil {
			v.ChecksPassed++
			continue
		}
		v.add(*finding)
	}

	v.reduce()
	return v
}

// EvaluateMissingCounterpart produces the degraded verdict for an entrada
// whose backing commercial document does not exist. Inspection never aborts
// on NotFound; the auditor always gets a verdict.
func EvaluateMissingCounterpart(e *model.Entrada) *Verdict {
	doc := "orden de compra"
	if e.Kind == model.EntradaTraspaso {
		doc = "traspaso"
	}

	v := &Verdict{
		EntradaNumber: e.Number,
		Kind:          e.Kind,
		ChecksRun:     1,
	}
	v.add(Finding{
		Code:     "sin_documento_respaldo",
		Severity: SeverityCritical,
		Category: CategoryDiscrepancy,
		Title:    "No existe " + doc + " que respalde esta entrada",
		Detail: map[string]interface{}{
			"numero_entrada":  e.Number,
			"numero_orden":    e.OrderNumber,
			"numero_traspaso": e.TransferNumber,
		},
		CanContinue: false,
		Remediation: []string{
			"Verificar el número de documento capturado en la entrada",
			"Rechazar la entrada si el documento no existe",
		},
	})
	v.reduce()
	return v
}

func (v *Verdict) add(f Finding) {
	switch f.Category {
	case CategoryConfirmation:
		v.ChecksPassed++
		v.Confirmations = append(v.Confirmations, f)
	case CategoryWarning:
		v.Warnings = append(v.Warnings, f)
	default:
		v.Discrepancies = append(v.Discrepancies, f)
	}
	v.Findings = append(v.Findings, f)
}

// reduce derives status, action, compliance and risk from the collected
// findings. Total: exactly one of the four statuses always comes out.
func (v *Verdict) reduce() {
	sort.SliceStable(v.Findings, func(i, j int) bool {
		return findingRank(v.Findings[i]) < findingRank(v.Findings[j])
	})

	var hasCritical, hasImportant, hasBlocking bool
	for _, f := range v.Findings {
		if f.Category == CategoryConfirmation {
			continue
		}
		if f.Severity == SeverityCritical {
			hasCritical = true
		}
		if f.Severity == SeverityImportant {
			hasImportant = true
		}
		if f.Blocking() {
			hasBlocking = true
		}
	}

	switch {
	case hasCritical || hasBlocking:
		v.Status = VerdictRejected
		v.RecommendedAction = "No procesar la entrada"
	case hasImportant:
		v.Status = VerdictManagementReview
		v.RecommendedAction = "Escalar a gerencia antes de procesar"
	case len(v.Discrepancies) > 0 || len(v.Warnings) > 0:
		v.Status = VerdictConditional
		v.RecommendedAction = "Procesar documentando las observaciones"
	default:
		v.Status = VerdictApproved
		v.RecommendedAction = "Procesar normalmente"
	}

	if v.ChecksRun > 0 {
		pct := float64(v.ChecksPassed) / float64(v.ChecksRun) * 100
		v.CompliancePct = int(math.Round(pct))
	}

	switch {
	case hasCritical:
		v.RiskLevel = RiskHigh
	case hasImportant:
		v.RiskLevel = RiskMedium
	case len(v.Warnings) > 2:
		v.RiskLevel = RiskMediumLow
	default:
		v.RiskLevel = RiskLow
	}
}

// findingRank orders by severity tier; confirmations sink below everything.
func findingRank(f Finding) int {
	if f.Category == CategoryConfirmation {
		return 3
	}
	return f.Severity.rank()
}
