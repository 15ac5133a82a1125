// Package badges awards achievement badges in the background after a
// session completes. The job is enqueued transactionally with the session
// status update, so a completed session never loses its badge check.
package badges

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/skillswap/backend/internal/models"
)

type AwardBadgesArgs struct {
	SessionID uuid.UUID `json:"session_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	LearnerID uuid.UUID `json:"learner_id"`
}

func (AwardBadgesArgs) Kind() string { return "award_badges" }

// BadgeStore is the persistence contract the worker needs.
type BadgeStore interface {
	ListBadges(ctx context.Context) ([]*models.Badge, error)
	SessionCounts(ctx context.Context, userID uuid.UUID) (taught, learned int, err error)
	Award(ctx context.Context, userID, badgeID uuid.UUID) (bool, error)
}

// Notifier delivers the badge notification. Insert failures are logged,
// not retried: the award itself already committed.
type Notifier interface {
	Insert(ctx context.Context, n *models.Notification) error
}

type AwardBadgesWorker struct {
	river.WorkerDefaults[AwardBadgesArgs]
	store    BadgeStore
	notifier Notifier
	log      *slog.Logger
}

func NewAwardBadgesWorker(store BadgeStore, notifier Notifier, log *slog.Logger) *AwardBadgesWorker {
	if log == nil {
		log = slog.Default()
	}
	return &AwardBadgesWorker{store: store, notifier: notifier, log: log}
}

func (w *AwardBadgesWorker) Work(ctx context.Context, job *river.Job[AwardBadgesArgs]) error {
	args := job.Args
	badges, err := w.store.ListBadges(ctx)
	if err != nil {
		return fmt.Errorf("list badges: %w", err)
	}
	for _, userID := range []uuid.UUID{args.TeacherID, args.LearnerID} {
		if err := w.checkUser(ctx, userID, badges); err != nil {
			return err
		}
	}
	return nil
}

func (w *AwardBadgesWorker) checkUser(ctx context.Context, userID uuid.UUID, badges []*models.Badge) error {
	taught, learned, err := w.store.SessionCounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("session counts for %s: %w", userID, err)
	}
	for _, b := range badges {
		var have int
		switch b.RequirementType {
		case models.BadgeReqSessionsTaught:
			have = taught
		case models.BadgeReqSessionsLearned:
			have = learned
		case models.BadgeReqSessionsCompleted:
			have = taught + learned
		default:
			continue
		}
		if have < b.RequirementValue {
			continue
		}
		awarded, err := w.store.Award(ctx, userID, b.ID)
		if err != nil {
			return fmt.Errorf("award badge %s: %w", b.Name, err)
		}
		if !awarded {
			continue
		}
		notifErr := w.notifier.Insert(ctx, &models.Notification{
			UserID:        userID,
			Title:         "Badge Earned!",
			Message:       fmt.Sprintf("You earned the %q badge", b.Name),
			Type:          models.NotificationTypeBadge,
			ReferenceType: "badge",
			ReferenceID:   &b.ID,
		})
		if notifErr != nil {
			w.log.Error("badge notification failed", "user_id", userID, "badge", b.Name, "error", notifErr)
		}
	}
	return nil
}
