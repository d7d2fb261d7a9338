package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestMetadataFor_KnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeOutOfStock, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeDependency, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataFor_UnknownFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "entitlement call failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
	typed := As(fmt.Errorf("outer: %w", err))
	if typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("As should find the typed error through wrapping, got %v", typed)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeOutOfStock, "stock validation failed").
		WithDetails([]string{`Insufficient stock for "Thermometer". Available: 3`})
	details, ok := err.Details().([]string)
	if !ok || len(details) != 1 {
		t.Fatalf("details not carried: %v", err.Details())
	}
}

func TestDump_PQError(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Constraint: "orders_pkey", Table: "orders"}
	d := Dump(Wrap(CodeInternal, pqErr, "insert order"))

	if d.PGCode != "23505" || d.PGConstraint != "orders_pkey" || d.PGTable != "orders" {
		t.Fatalf("pq diagnostics missing from dump: %+v", d)
	}
	if d.Code != CodeInternal {
		t.Fatalf("expected code in dump, got %q", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
