package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap/backend/internal/badges"
	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/models"
)

var (
	// ErrNotFound is returned when the session does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrForbidden is returned when the caller is not allowed to act on the session.
	ErrForbidden = errors.New("not allowed")
	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the session's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNoTeachListing is returned when the teacher has no teach listing
	// for the requested skill.
	ErrNoTeachListing = errors.New("teacher does not teach this skill")
)

// allowedTransitions is the single source of truth for the session state
// machine. Effects are keyed off the current status, never off the
// requested target alone.
var allowedTransitions = map[string]map[string]bool{
	models.SessionStatusPending: {
		models.SessionStatusConfirmed: true,
		models.SessionStatusDeclined:  true,
		models.SessionStatusCancelled: true,
	},
	models.SessionStatusConfirmed: {
		models.SessionStatusCompleted: true,
		models.SessionStatusCancelled: true,
	},
}

// CreditCost prices a session: hourly rate prorated by duration, rounded
// half away from zero to whole credits.
func CreditCost(hourlyRate, durationMinutes int) int {
	return int(math.Round(float64(hourlyRate) * float64(durationMinutes) / 60.0))
}

// Store is the persistence interface the service needs.
type Store interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Create(ctx context.Context, s *models.Session) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Session, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, meetingLink, notes *string) error
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Session, error)
	List(ctx context.Context, userID uuid.UUID, status, role string, page, limit int) ([]*models.Session, int, error)
	TeachRate(ctx context.Context, teacherID, skillID uuid.UUID) (*int, error)
	UserBalance(ctx context.Context, userID uuid.UUID) (int, error)
}

// Notifier inserts user-facing notifications after a transition commits.
// Insert failures are logged and never roll back the ledger.
type Notifier interface {
	Insert(ctx context.Context, n *models.Notification) error
}

// InsertAwardBadgesTxFunc enqueues the badge-award job within the given
// transaction. Provided by main using river.Client.InsertTx.
type InsertAwardBadgesTxFunc func(ctx context.Context, tx pgx.Tx, args badges.AwardBadgesArgs) error

// BookingInput carries a validated booking request.
type BookingInput struct {
	TeacherID       uuid.UUID
	SkillID         uuid.UUID
	Title           string
	Description     string
	ScheduledDate   time.Time
	DurationMinutes int
}

// TransitionInput carries a validated status-transition request.
type TransitionInput struct {
	Status      string
	MeetingLink *string
	Notes       *string
}

type Service interface {
	Book(ctx context.Context, learnerID uuid.UUID, in BookingInput) (*models.Session, error)
	Transition(ctx context.Context, callerID, sessionID uuid.UUID, in TransitionInput) error
	Get(ctx context.Context, callerID, sessionID uuid.UUID) (*models.Session, error)
	List(ctx context.Context, userID uuid.UUID, status, role string, page, limit int) ([]*models.Session, int, error)
}

type service struct {
	store             Store
	ledger            ledger.Service
	notifier          Notifier
	insertAwardBadges InsertAwardBadgesTxFunc
	log               *slog.Logger
}

// NewService creates a sessions service. insertAwardBadges is typically a
// closure over river.Client.InsertTx.
func NewService(store Store, ledgerSvc ledger.Service, notifier Notifier, insertAwardBadges InsertAwardBadgesTxFunc, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, ledger: ledgerSvc, notifier: notifier, insertAwardBadges: insertAwardBadges, log: log}
}

var _ Service = (*service)(nil)

// Book creates a pending session. The learner's balance is checked but not
// reserved; the debit happens at confirmation, conditionally.
func (s *service) Book(ctx context.Context, learnerID uuid.UUID, in BookingInput) (*models.Session, error) {
	rate, err := s.store.TeachRate(ctx, in.TeacherID, in.SkillID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrNoTeachListing
	}
	cost := CreditCost(*rate, in.DurationMinutes)

	balance, err := s.store.UserBalance(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, ledger.ErrInsufficientCredits
	}

	sess := &models.Session{
		ID:              uuid.New(),
		TeacherID:       in.TeacherID,
		LearnerID:       learnerID,
		SkillID:         in.SkillID,
		Title:           in.Title,
		Description:     in.Description,
		Status:          models.SessionStatusPending,
		ScheduledDate:   in.ScheduledDate,
		DurationMinutes: in.DurationMinutes,
		CreditCost:      cost,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.notify(ctx, &models.Notification{
		UserID:        in.TeacherID,
		Title:         "New Session Request",
		Message:       fmt.Sprintf("You have a new session request for %q", in.Title),
		Type:          models.NotificationTypeSession,
		ReferenceType: "session",
		ReferenceID:   &sess.ID,
	})
	return sess, nil
}

// Transition applies one step of the session state machine. Ledger effects
// and the status update commit in a single transaction; the row lock
// serializes concurrent transitions on the same session.
func (s *service) Transition(ctx context.Context, callerID, sessionID uuid.UUID, in TransitionInput) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	sess, err := s.store.GetForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !sess.IsParticipant(callerID) {
		return ErrForbidden
	}
	if !allowedTransitions[sess.Status][in.Status] {
		return ErrInvalidTransition
	}

	var after []*models.Notification
	switch in.Status {
	case models.SessionStatusConfirmed:
		if callerID != sess.TeacherID {
			return ErrForbidden
		}
		if err := s.ledger.Spend(ctx, tx, sess.LearnerID, sess.ID, sess.CreditCost, "Session: "+sess.Title); err != nil {
			return err
		}
		after = append(after, &models.Notification{
			UserID:        sess.LearnerID,
			Title:         "Session Confirmed!",
			Message:       fmt.Sprintf("Your session %q has been confirmed", sess.Title),
			Type:          models.NotificationTypeSession,
			ReferenceType: "session",
			ReferenceID:   &sess.ID,
		})

	case models.SessionStatusCompleted:
		if err := s.ledger.Earn(ctx, tx, sess.TeacherID, sess.ID, sess.CreditCost, "Teaching: "+sess.Title); err != nil {
			return err
		}
		if err := s.insertAwardBadges(ctx, tx, badges.AwardBadgesArgs{
			SessionID: sess.ID,
			TeacherID: sess.TeacherID,
			LearnerID: sess.LearnerID,
		}); err != nil {
			return err
		}
		for _, userID := range []uuid.UUID{sess.TeacherID, sess.LearnerID} {
			after = append(after, &models.Notification{
				UserID:        userID,
				Title:         "Session Completed",
				Message:       "Please rate your experience",
				Type:          models.NotificationTypeSession,
				ReferenceType: "session",
				ReferenceID:   &sess.ID,
			})
		}

	case models.SessionStatusCancelled:
		// Cancelling after confirmation returns the debited credits.
		if sess.Status == models.SessionStatusConfirmed {
			if err := s.ledger.Refund(ctx, tx, sess.LearnerID, sess.ID, sess.CreditCost, "Refund: "+sess.Title); err != nil {
				return err
			}
		}
		other := sess.TeacherID
		if callerID == sess.TeacherID {
			other = sess.LearnerID
		}
		after = append(after, &models.Notification{
			UserID:        other,
			Title:         "Session Cancelled",
			Message:       fmt.Sprintf("The session %q was cancelled", sess.Title),
			Type:          models.NotificationTypeSession,
			ReferenceType: "session",
			ReferenceID:   &sess.ID,
		})

	case models.SessionStatusDeclined:
		if callerID != sess.TeacherID {
			return ErrForbidden
		}
		after = append(after, &models.Notification{
			UserID:        sess.LearnerID,
			Title:         "Session Declined",
			Message:       fmt.Sprintf("Your session request %q was declined", sess.Title),
			Type:          models.NotificationTypeSession,
			ReferenceType: "session",
			ReferenceID:   &sess.ID,
		})
	}

	if err := s.store.UpdateStatusTx(ctx, tx, sess.ID, in.Status, in.MeetingLink, in.Notes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	for _, n := range after {
		s.notify(ctx, n)
	}
	return nil
}

func (s *service) Get(ctx context.Context, callerID, sessionID uuid.UUID) (*models.Session, error) {
	sess, err := s.store.GetDetail(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sess.IsParticipant(callerID) {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, status, role string, page, limit int) ([]*models.Session, int, error) {
	return s.store.List(ctx, userID, status, role, page, limit)
}

func (s *service) notify(ctx context.Context, n *models.Notification) {
	if err := s.notifier.Insert(ctx, n); err != nil {
		s.log.Error("notification insert failed", "user_id", n.UserID, "error", err)
	}
}
