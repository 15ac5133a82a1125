package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap/backend/internal/badges"
	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type noopTx struct{}

func (noopTx) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(context.Context) error          { return nil }
func (noopTx) Rollback(context.Context) error        { return nil }
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Conn() *pgx.Conn { return nil }

// --- Store mock ---

type mockSessionStore struct {
	sessions map[uuid.UUID]*models.Session
	rates    map[[2]uuid.UUID]int // (teacher, skill) -> hourly rate
	balances map[uuid.UUID]int
	updates  []string // statuses written
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		sessions: map[uuid.UUID]*models.Session{},
		rates:    map[[2]uuid.UUID]int{},
		balances: map[uuid.UUID]int{},
	}
}

func (m *mockSessionStore) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

func (m *mockSessionStore) Create(_ context.Context, s *models.Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockSessionStore) GetForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessionStore) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status string, _, _ *string) error {
	m.sessions[id].Status = status
	m.updates = append(m.updates, status)
	return nil
}

func (m *mockSessionStore) GetDetail(_ context.Context, id uuid.UUID) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockSessionStore) List(context.Context, uuid.UUID, string, string, int, int) ([]*models.Session, int, error) {
	return nil, 0, nil
}

func (m *mockSessionStore) TeachRate(_ context.Context, teacherID, skillID uuid.UUID) (*int, error) {
	rate, ok := m.rates[[2]uuid.UUID{teacherID, skillID}]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (m *mockSessionStore) UserBalance(_ context.Context, userID uuid.UUID) (int, error) {
	return m.balances[userID], nil
}

// --- ledger.Service mock: records calls ---

type ledgerCall struct {
	op     string
	userID uuid.UUID
	amount int
}

type mockLedger struct {
	calls []ledgerCall
}

func (m *mockLedger) Spend(_ context.Context, _ pgx.Tx, userID, _ uuid.UUID, amount int, _ string) error {
	m.calls = append(m.calls, ledgerCall{"spend", userID, amount})
	return nil
}

func (m *mockLedger) Earn(_ context.Context, _ pgx.Tx, userID, _ uuid.UUID, amount int, _ string) error {
	m.calls = append(m.calls, ledgerCall{"earn", userID, amount})
	return nil
}

func (m *mockLedger) Refund(_ context.Context, _ pgx.Tx, userID, _ uuid.UUID, amount int, _ string) error {
	m.calls = append(m.calls, ledgerCall{"refund", userID, amount})
	return nil
}

func (m *mockLedger) Bonus(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount int, _ string) error {
	m.calls = append(m.calls, ledgerCall{"bonus", userID, amount})
	return nil
}

func (m *mockLedger) Purchase(_ context.Context, userID uuid.UUID, amount int) (int, error) {
	m.calls = append(m.calls, ledgerCall{"purchase", userID, amount})
	return amount, nil
}

func (m *mockLedger) byOp(op string) []ledgerCall {
	var out []ledgerCall
	for _, c := range m.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// --- Notifier mock ---

type mockNotifier struct {
	inserted []*models.Notification
}

func (m *mockNotifier) Insert(_ context.Context, n *models.Notification) error {
	cp := *n
	m.inserted = append(m.inserted, &cp)
	return nil
}

func (m *mockNotifier) forUser(userID uuid.UUID) []*models.Notification {
	var out []*models.Notification
	for _, n := range m.inserted {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	svc      Service
	store    *mockSessionStore
	ledger   *mockLedger
	notifier *mockNotifier
	enqueued []badges.AwardBadgesArgs
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMockSessionStore(),
		ledger:   &mockLedger{},
		notifier: &mockNotifier{},
	}
	insert := func(_ context.Context, _ pgx.Tx, args badges.AwardBadgesArgs) error {
		f.enqueued = append(f.enqueued, args)
		return nil
	}
	f.svc = NewService(f.store, f.ledger, f.notifier, insert, nil)
	return f
}

func (f *fixture) seedSession(status string, cost int) *models.Session {
	s := &models.Session{
		ID:         uuid.New(),
		TeacherID:  uuid.New(),
		LearnerID:  uuid.New(),
		SkillID:    uuid.New(),
		Title:      "Go basics",
		Status:     status,
		CreditCost: cost,
	}
	f.store.sessions[s.ID] = s
	return s
}

// ---------------------------------------------------------------------------
// CreditCost
// ---------------------------------------------------------------------------

func TestCreditCost(t *testing.T) {
	cases := []struct {
		rate, minutes, want int
	}{
		{30, 60, 30},
		{30, 45, 23}, // 22.5 rounds up
		{30, 30, 15},
		{20, 90, 30},
		{25, 50, 21}, // 20.83 rounds to 21
		{10, 15, 3},  // 2.5 rounds up
	}
	for _, c := range cases {
		if got := CreditCost(c.rate, c.minutes); got != c.want {
			t.Errorf("CreditCost(%d, %d): got %d, want %d", c.rate, c.minutes, got, c.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Book
// ---------------------------------------------------------------------------

func TestBook(t *testing.T) {
	f := newFixture()
	teacher := uuid.New()
	learner := uuid.New()
	skill := uuid.New()

	f.store.rates[[2]uuid.UUID{teacher, skill}] = 30
	f.store.balances[learner] = 100

	sess, err := f.svc.Book(context.Background(), learner, BookingInput{
		TeacherID:       teacher,
		SkillID:         skill,
		Title:           "Go basics",
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if sess.Status != models.SessionStatusPending {
		t.Errorf("status: got %q, want pending", sess.Status)
	}
	if sess.CreditCost != 23 {
		t.Errorf("credit cost: got %d, want 23", sess.CreditCost)
	}

	// Booking only checks the balance; no ledger effect yet.
	if len(f.ledger.calls) != 0 {
		t.Errorf("expected no ledger calls at booking, got %d", len(f.ledger.calls))
	}

	// Teacher is notified.
	if got := f.notifier.forUser(teacher); len(got) != 1 {
		t.Errorf("teacher notifications: got %d, want 1", len(got))
	}
}

func TestBook_NoTeachListing(t *testing.T) {
	f := newFixture()
	learner := uuid.New()
	f.store.balances[learner] = 100

	_, err := f.svc.Book(context.Background(), learner, BookingInput{
		TeacherID:       uuid.New(),
		SkillID:         uuid.New(),
		Title:           "Go basics",
		DurationMinutes: 60,
	})
	if err != ErrNoTeachListing {
		t.Fatalf("expected ErrNoTeachListing, got: %v", err)
	}
	if len(f.store.sessions) != 0 {
		t.Error("no session row should be created")
	}
}

func TestBook_InsufficientCredits(t *testing.T) {
	f := newFixture()
	teacher := uuid.New()
	learner := uuid.New()
	skill := uuid.New()

	f.store.rates[[2]uuid.UUID{teacher, skill}] = 50
	f.store.balances[learner] = 10

	_, err := f.svc.Book(context.Background(), learner, BookingInput{
		TeacherID:       teacher,
		SkillID:         skill,
		Title:           "Expensive",
		DurationMinutes: 60,
	})
	if err != ledger.ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got: %v", err)
	}
	if len(f.store.sessions) != 0 {
		t.Error("no session row should be created")
	}
}

// ---------------------------------------------------------------------------
// Transition
// ---------------------------------------------------------------------------

func TestTransition_Confirm(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), sess.TeacherID, sess.ID,
		TransitionInput{Status: models.SessionStatusConfirmed})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	spends := f.ledger.byOp("spend")
	if len(spends) != 1 {
		t.Fatalf("spend calls: got %d, want 1", len(spends))
	}
	if spends[0].userID != sess.LearnerID || spends[0].amount != 23 {
		t.Errorf("spend: got user %s amount %d, want learner/23", spends[0].userID, spends[0].amount)
	}
	if f.store.sessions[sess.ID].Status != models.SessionStatusConfirmed {
		t.Error("session should be confirmed")
	}
	if got := f.notifier.forUser(sess.LearnerID); len(got) != 1 {
		t.Errorf("learner notifications: got %d, want 1", len(got))
	}
}

func TestTransition_ConfirmByLearnerForbidden(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), sess.LearnerID, sess.ID,
		TransitionInput{Status: models.SessionStatusConfirmed})
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
	if len(f.ledger.calls) != 0 {
		t.Error("no ledger effect on forbidden transition")
	}
}

func TestTransition_Complete(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusConfirmed, 23)

	err := f.svc.Transition(context.Background(), sess.LearnerID, sess.ID,
		TransitionInput{Status: models.SessionStatusCompleted})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	earns := f.ledger.byOp("earn")
	if len(earns) != 1 || earns[0].userID != sess.TeacherID || earns[0].amount != 23 {
		t.Errorf("earn: got %+v, want teacher/23", earns)
	}

	// One badge-award job enqueued with both participants.
	if len(f.enqueued) != 1 {
		t.Fatalf("badge jobs enqueued: got %d, want 1", len(f.enqueued))
	}
	if f.enqueued[0].TeacherID != sess.TeacherID || f.enqueued[0].LearnerID != sess.LearnerID {
		t.Error("badge job should carry both participants")
	}

	// Both participants are prompted to review.
	if len(f.notifier.inserted) != 2 {
		t.Errorf("notifications: got %d, want 2", len(f.notifier.inserted))
	}
}

func TestTransition_PendingToCompletedRejected(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), sess.TeacherID, sess.ID,
		TransitionInput{Status: models.SessionStatusCompleted})
	if err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got: %v", err)
	}
	if len(f.ledger.calls) != 0 {
		t.Error("no ledger entry on rejected transition")
	}
	if f.store.sessions[sess.ID].Status != models.SessionStatusPending {
		t.Error("status should stay pending")
	}
}

func TestTransition_CancelPending(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), sess.LearnerID, sess.ID,
		TransitionInput{Status: models.SessionStatusCancelled})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	// Nothing was debited, so nothing is refunded.
	if len(f.ledger.calls) != 0 {
		t.Errorf("ledger calls: got %d, want 0", len(f.ledger.calls))
	}
	if got := f.notifier.forUser(sess.TeacherID); len(got) != 1 {
		t.Errorf("teacher notifications: got %d, want 1", len(got))
	}
}

func TestTransition_CancelConfirmedRefunds(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusConfirmed, 23)

	err := f.svc.Transition(context.Background(), sess.TeacherID, sess.ID,
		TransitionInput{Status: models.SessionStatusCancelled})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	refunds := f.ledger.byOp("refund")
	if len(refunds) != 1 {
		t.Fatalf("refund calls: got %d, want 1", len(refunds))
	}
	if refunds[0].userID != sess.LearnerID || refunds[0].amount != 23 {
		t.Errorf("refund: got user %s amount %d, want learner/23", refunds[0].userID, refunds[0].amount)
	}
	// The teacher cancelled, so the learner is notified.
	if got := f.notifier.forUser(sess.LearnerID); len(got) != 1 {
		t.Errorf("learner notifications: got %d, want 1", len(got))
	}
}

func TestTransition_DeclineByLearnerForbidden(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), sess.LearnerID, sess.ID,
		TransitionInput{Status: models.SessionStatusDeclined})
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}

func TestTransition_NonParticipant(t *testing.T) {
	f := newFixture()
	sess := f.seedSession(models.SessionStatusPending, 23)

	err := f.svc.Transition(context.Background(), uuid.New(), sess.ID,
		TransitionInput{Status: models.SessionStatusCancelled})
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}

func TestTransition_NotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.Transition(context.Background(), uuid.New(), uuid.New(),
		TransitionInput{Status: models.SessionStatusConfirmed})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
