package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestCreateSessionSchema(t *testing.T) {
	v := newTestValidator(t)

	valid := fmt.Sprintf(`{
		"teacher_id": %q,
		"skill_id": %q,
		"title": "Go basics",
		"scheduled_date": "2026-10-01T15:00:00Z",
		"duration_minutes": 60
	}`, uuid.NewString(), uuid.NewString())
	if err := v.Validate(SchemaCreateSession, []byte(valid)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}

	cases := map[string]string{
		"missing title": fmt.Sprintf(`{
			"teacher_id": %q, "skill_id": %q,
			"scheduled_date": "2026-10-01T15:00:00Z", "duration_minutes": 60
		}`, uuid.NewString(), uuid.NewString()),
		"duration too short": fmt.Sprintf(`{
			"teacher_id": %q, "skill_id": %q, "title": "x",
			"scheduled_date": "2026-10-01T15:00:00Z", "duration_minutes": 5
		}`, uuid.NewString(), uuid.NewString()),
		"unknown field": fmt.Sprintf(`{
			"teacher_id": %q, "skill_id": %q, "title": "x",
			"scheduled_date": "2026-10-01T15:00:00Z", "duration_minutes": 60,
			"price": 9999
		}`, uuid.NewString(), uuid.NewString()),
		"not JSON": `{{{`,
	}
	for name, body := range cases {
		err := v.Validate(SchemaCreateSession, []byte(body))
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got: %v", name, err)
		}
	}
}

func TestUpdateSessionSchema(t *testing.T) {
	v := newTestValidator(t)

	if err := v.Validate(SchemaUpdateSession, []byte(`{"status": "confirmed"}`)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}
	// A session can never be moved back to pending by request.
	if err := v.Validate(SchemaUpdateSession, []byte(`{"status": "pending"}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("status pending: expected ErrValidation, got: %v", err)
	}
	if err := v.Validate(SchemaUpdateSession, []byte(`{}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("missing status: expected ErrValidation, got: %v", err)
	}
}

func TestCreateReviewSchema(t *testing.T) {
	v := newTestValidator(t)

	valid := fmt.Sprintf(`{"session_id": %q, "rating": 5, "comment": "great"}`, uuid.NewString())
	if err := v.Validate(SchemaCreateReview, []byte(valid)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}

	for _, rating := range []string{"0", "6", "3.5"} {
		body := fmt.Sprintf(`{"session_id": %q, "rating": %s}`, uuid.NewString(), rating)
		if err := v.Validate(SchemaCreateReview, []byte(body)); !errors.Is(err, ErrValidation) {
			t.Errorf("rating %s: expected ErrValidation, got: %v", rating, err)
		}
	}
}

func TestPurchaseSchema(t *testing.T) {
	v := newTestValidator(t)

	if err := v.Validate(SchemaPurchase, []byte(`{"amount": 50}`)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}
	for name, body := range map[string]string{
		"zero":     `{"amount": 0}`,
		"negative": `{"amount": -10}`,
		"missing":  `{}`,
	} {
		if err := v.Validate(SchemaPurchase, []byte(body)); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got: %v", name, err)
		}
	}
}

func TestUnknownSchema(t *testing.T) {
	v := newTestValidator(t)
	if err := v.Validate("no_such_schema", []byte(`{}`)); err == nil {
		t.Fatal("expected error for unknown schema name")
	}
}
