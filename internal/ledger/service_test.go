package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap/backend/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory Store mock. Lets us test the real ledger service logic without
// a database.
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

type mockStore struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
	entries  []*models.CreditTransaction
}

func newMockStore(balances map[uuid.UUID]int) *mockStore {
	if balances == nil {
		balances = map[uuid.UUID]int{}
	}
	return &mockStore{balances: balances}
}

func (m *mockStore) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

func (m *mockStore) DeductCredits(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return 0, fmt.Errorf("user %s not found", userID)
	}
	if bal < amount {
		return 0, ErrInsufficientCredits
	}
	m.balances[userID] = bal - amount
	return m.balances[userID], nil
}

func (m *mockStore) AddCredits(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return m.balances[userID], nil
}

func (m *mockStore) InsertEntry(_ context.Context, _ pgx.Tx, c *models.CreditTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockStore) balance(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

func (m *mockStore) byType(txType string) []*models.CreditTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CreditTransaction
	for _, e := range m.entries {
		if e.TransactionType == txType {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockStore) all() []*models.CreditTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.CreditTransaction, len(m.entries))
	copy(out, m.entries)
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSpend(t *testing.T) {
	learner := uuid.New()
	session := uuid.New()

	store := newMockStore(map[uuid.UUID]int{learner: 100})
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.Spend(ctx, noopTx{}, learner, session, 30, "Session: Go basics"); err != nil {
		t.Fatalf("Spend: %v", err)
	}

	if got := store.balance(learner); got != 70 {
		t.Errorf("balance after spend: got %d, want 70", got)
	}

	spent := store.byType(models.CreditTxSpent)
	if len(spent) != 1 {
		t.Fatalf("spent entries: got %d, want 1", len(spent))
	}
	if spent[0].Amount != -30 {
		t.Errorf("spent amount: got %d, want -30", spent[0].Amount)
	}
	if spent[0].BalanceAfter != 70 {
		t.Errorf("balance_after: got %d, want 70", spent[0].BalanceAfter)
	}
	if spent[0].ReferenceID == nil || *spent[0].ReferenceID != session {
		t.Error("spent entry should reference the session")
	}
}

func TestSpend_InsufficientCredits(t *testing.T) {
	learner := uuid.New()

	store := newMockStore(map[uuid.UUID]int{learner: 10})
	svc := NewService(store)

	err := svc.Spend(context.Background(), noopTx{}, learner, uuid.New(), 50, "Session: too rich")
	if err != ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got: %v", err)
	}

	// Nothing written, balance untouched.
	if got := store.balance(learner); got != 10 {
		t.Errorf("balance: got %d, want 10", got)
	}
	if n := len(store.all()); n != 0 {
		t.Errorf("ledger entries: got %d, want 0", n)
	}
}

func TestEarn(t *testing.T) {
	teacher := uuid.New()
	session := uuid.New()

	store := newMockStore(map[uuid.UUID]int{teacher: 5})
	svc := NewService(store)

	if err := svc.Earn(context.Background(), noopTx{}, teacher, session, 30, "Teaching: Go basics"); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	if got := store.balance(teacher); got != 35 {
		t.Errorf("balance after earn: got %d, want 35", got)
	}
	earned := store.byType(models.CreditTxEarned)
	if len(earned) != 1 || earned[0].Amount != 30 || earned[0].BalanceAfter != 35 {
		t.Errorf("earned entry: got %+v, want amount 30, balance_after 35", earned)
	}
}

func TestRefund(t *testing.T) {
	learner := uuid.New()
	session := uuid.New()

	store := newMockStore(map[uuid.UUID]int{learner: 70})
	svc := NewService(store)

	if err := svc.Refund(context.Background(), noopTx{}, learner, session, 30, "Refund: Go basics"); err != nil {
		t.Fatalf("Refund: %v", err)
	}

	if got := store.balance(learner); got != 100 {
		t.Errorf("balance after refund: got %d, want 100", got)
	}
	refunds := store.byType(models.CreditTxRefund)
	if len(refunds) != 1 || refunds[0].Amount != 30 {
		t.Fatalf("refund entries: got %+v, want one of amount 30", refunds)
	}
}

func TestBonus(t *testing.T) {
	user := uuid.New()

	store := newMockStore(map[uuid.UUID]int{user: 0})
	svc := NewService(store)

	if err := svc.Bonus(context.Background(), noopTx{}, user, 100, "Welcome bonus"); err != nil {
		t.Fatalf("Bonus: %v", err)
	}

	if got := store.balance(user); got != 100 {
		t.Errorf("balance after bonus: got %d, want 100", got)
	}
	bonuses := store.byType(models.CreditTxBonus)
	if len(bonuses) != 1 {
		t.Fatalf("bonus entries: got %d, want 1", len(bonuses))
	}
	if bonuses[0].Amount != 100 || bonuses[0].BalanceAfter != 100 {
		t.Errorf("bonus entry: amount %d balance_after %d, want 100/100", bonuses[0].Amount, bonuses[0].BalanceAfter)
	}
	if bonuses[0].ReferenceID != nil {
		t.Error("bonus entry should not reference a session")
	}
}

func TestPurchase(t *testing.T) {
	user := uuid.New()

	store := newMockStore(map[uuid.UUID]int{user: 40})
	svc := NewService(store)

	newBalance, err := svc.Purchase(context.Background(), user, 50)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if newBalance != 90 {
		t.Errorf("new balance: got %d, want 90", newBalance)
	}

	purchases := store.byType(models.CreditTxPurchase)
	if len(purchases) != 1 || purchases[0].Amount != 50 || purchases[0].BalanceAfter != 90 {
		t.Errorf("purchase entry: got %+v, want amount 50, balance_after 90", purchases)
	}
}

// TestLedgerIntegrity runs a full cycle (bonus, spend, earn, refund) and
// asserts the balance always equals the running sum of ledger amounts.
func TestLedgerIntegrity(t *testing.T) {
	learner := uuid.New()
	teacher := uuid.New()
	session := uuid.New()

	store := newMockStore(map[uuid.UUID]int{learner: 0, teacher: 0})
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.Bonus(ctx, noopTx{}, learner, 100, "Welcome bonus"); err != nil {
		t.Fatalf("Bonus: %v", err)
	}
	if err := svc.Spend(ctx, noopTx{}, learner, session, 25, "Session: Sourdough 101"); err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if err := svc.Earn(ctx, noopTx{}, teacher, session, 25, "Teaching: Sourdough 101"); err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if err := svc.Refund(ctx, noopTx{}, learner, session, 25, "Refund: Sourdough 101"); err != nil {
		t.Fatalf("Refund: %v", err)
	}

	sums := map[uuid.UUID]int{}
	for _, e := range store.all() {
		sums[e.UserID] += e.Amount
	}
	for _, userID := range []uuid.UUID{learner, teacher} {
		if got, want := store.balance(userID), sums[userID]; got != want {
			t.Errorf("user %s: balance %d != ledger sum %d", userID, got, want)
		}
	}
}
