package auth

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/models"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidEmail is returned when the email fails the format check.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrPasswordTooShort is returned for passwords under 6 characters.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrInvalidRole is returned for roles outside learner/teacher/both.
	ErrInvalidRole = errors.New("invalid role")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const tokenTTL = 7 * 24 * time.Hour

// Notifier inserts the welcome notification inside the registration transaction.
type Notifier interface {
	InsertTx(ctx context.Context, tx pgx.Tx, n *models.Notification) error
}

type Service interface {
	Register(ctx context.Context, email, password, name, role string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type service struct {
	repo     *Repository
	ledger   ledger.Service
	notifier Notifier
	secret   []byte
}

func NewService(repo *Repository, ledgerSvc ledger.Service, notifier Notifier, secret string) Service {
	return &service{repo: repo, ledger: ledgerSvc, notifier: notifier, secret: []byte(secret)}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Register creates the user, the 100-credit welcome bonus with its ledger
// row, and the welcome notification in a single transaction, then issues a
// token.
func (s *service) Register(ctx context.Context, email, password, name, role string) (*models.User, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}
	if role == "" {
		role = models.UserRoleBoth
	}
	if role != models.UserRoleLearner && role != models.UserRoleTeacher && role != models.UserRoleBoth {
		return nil, "", ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	user, err := s.repo.CreateUser(ctx, tx, email, string(hash), name, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}
	if err := s.ledger.Bonus(ctx, tx, user.ID, models.WelcomeBonusCredits, "Welcome bonus"); err != nil {
		return nil, "", err
	}
	err = s.notifier.InsertTx(ctx, tx, &models.Notification{
		UserID:  user.ID,
		Title:   "Welcome to SkillSwap!",
		Message: "You received 100 credits to get started. Happy learning!",
		Type:    models.NotificationTypeCredit,
	})
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}
	user.CreditBalance = models.WelcomeBonusCredits

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) issueToken(userID uuid.UUID, email string) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: email,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

// ValidateToken checks the HS256 signature and expiry and returns the
// subject user id.
func (s *service) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	return uuid.Parse(c.Subject)
}
