package audit

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseRef(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")

	cases := []struct {
		in       string
		wantID   uuid.UUID
		wantName string
	}{
		{id.String(), id, ""},
		{"  " + id.String() + "  ", id, ""},
		{"Perfumes del Norte SA", uuid.Nil, "Perfumes del Norte SA"},
		{"ALM-NORTE", uuid.Nil, "ALM-NORTE"},
		{"", uuid.Nil, ""},
		{"   ", uuid.Nil, ""},
		{"not-quite-a-uuid-1234", uuid.Nil, "not-quite-a-uuid-1234"},
	}

	for _, tc := range cases {
		ref := ParseRef(tc.in)
		if ref.ID != tc.wantID || ref.Name != tc.wantName {
			t.Fatalf("ParseRef(%q) = {%s %q}, want {%s %q}", tc.in, ref.ID, ref.Name, tc.wantID, tc.wantName)
		}
	}
}

func TestRefPredicates(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")

	byID := Ref{ID: id}
	if !byID.ByID() || byID.IsZero() {
		t.Fatal("id ref misclassified")
	}
	if byID.String() != id.String() {
		t.Fatalf("expected %s, got %s", id, byID.String())
	}

	byName := Ref{Name: "Proveedor X"}
	if byName.ByID() || byName.IsZero() {
		t.Fatal("name ref misclassified")
	}
	if byName.String() != "Proveedor X" {
		t.Fatalf("expected name string, got %s", byName.String())
	}

	var zero Ref
	if !zero.IsZero() {
		t.Fatal("zero ref must report IsZero")
	}
}
