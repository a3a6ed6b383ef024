package audit

// Severity tiers for findings. Ordering matters: verdicts and the sorted
// finding list both key off the tier.
type Severity string

const (
	SeverityCritical  Severity = "CRITICAL"
	SeverityImportant Severity = "IMPORTANT"
	SeverityMinor     Severity = "MINOR"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityImportant:
		return 1
	default:
		return 2
	}
}

// Category splits findings into blocking-capable discrepancies, advisory
// warnings, and informational confirmations.
type Category string

const (
	CategoryDiscrepancy  Category = "discrepancia"
	CategoryWarning      Category = "advertencia"
	CategoryConfirmation Category = "confirmacion"
)

// Finding is the result of one consistency check. Immutable once created.
type Finding struct {
	Code        string                 `json:"codigo"`
	Severity    Severity               `json:"severidad"`
	Category    Category               `json:"categoria"`
	Title       string                 `json:"titulo"`
	Detail      map[string]interface{} `json:"detalle,omitempty"`
	CanContinue bool                   `json:"puede_continuar"`
	Remediation []string               `json:"acciones_sugeridas,omitempty"`
}

// Blocking reports whether the finding forbids posting on its own.
func (f Finding) Blocking() bool {
	return !f.CanContinue
}

func confirmation(code, title string, detail map[string]interface{}) *Finding {
	return &Finding{
		Code:        code,
		Severity:    SeverityMinor,
		Category:    CategoryConfirmation,
		Title:       title,
		Detail:      detail,
		CanContinue: true,
	}
}
