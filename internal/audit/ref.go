package audit

import (
	"strings"

	"github.com/google/uuid"
)

// Ref is a tagged document reference. Legacy entradas and traspasos stored
// supplier and warehouse fields as free text (name or code) before the
// schema migration introduced uuids, so a stored reference is one of the
// two. Parse once at the boundary; nothing downstream re-inspects the raw
// string.
type Ref struct {
	ID   uuid.UUID
	Name string
}

// ByID reports whether the reference carries a uuid.
func (r Ref) ByID() bool {
	return r.ID != uuid.Nil
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return r.ID == uuid.Nil && r.Name == ""
}

func (r Ref) String() string {
	if r.ByID() {
		return r.ID.String()
	}
	return r.Name
}

// ParseRef classifies a raw stored reference as ById or ByName.
func ParseRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}
	}
	if id, err := uuid.Parse(raw); err == nil {
		return Ref{ID: id}
	}
	return Ref{Name: raw}
}
