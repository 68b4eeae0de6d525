package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/domain"
	bookingrepo "staybook/internal/repository/booking"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referencePrefix = "BK-"
	referenceLength = 6

	// Collisions on a 6-char hex token are rare; a handful of retries is
	// plenty before giving up on the storage layer.
	maxReferenceAttempts = 5
)

type bookingRepo interface {
	CreateFromCart(ctx context.Context, in bookingrepo.CheckoutInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

// ContactInfo is the checkout metadata recorded on the booking. Payment is
// only a label; no payment processing happens here.
type ContactInfo struct {
	ContactName     string `json:"contactName" validate:"required"`
	ContactPhone    string `json:"contactPhone" validate:"required"`
	ContactEmail    string `json:"contactEmail" validate:"required,email"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type Service struct {
	repo     bookingRepo
	validate *validator.Validate
	logger   *zap.Logger
}

func New(repo bookingrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Checkout converts the user's cart into a booking. The repository performs
// the conversion atomically; this layer validates contact info and owns the
// reference retry loop on the rare collision.
func (s *Service) Checkout(ctx context.Context, userID string, info ContactInfo) (*domain.Booking, error) {
	if err := s.validate.Struct(info); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, contactErrors(err))
	}

	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		booking, err := s.repo.CreateFromCart(ctx, bookingrepo.CheckoutInput{
			UserID:          userID,
			Reference:       generateReference(),
			ContactName:     info.ContactName,
			ContactPhone:    info.ContactPhone,
			ContactEmail:    info.ContactEmail,
			PaymentMethod:   info.PaymentMethod,
			SpecialRequests: info.SpecialRequests,
		})
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return nil, err
		}
		s.logger.Warn("booking reference collision, regenerating", zap.String("user_id", userID))
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBookingByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference required", domain.ErrValidation)
	}
	return s.repo.GetByReference(ctx, reference)
}

// ListUserBookings returns the user's bookings, newest first.
func (s *Service) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// generateReference builds a human-shareable reference: fixed prefix plus a
// short upper-case token drawn from a random UUID.
func generateReference() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:referenceLength]
	return referencePrefix + strings.ToUpper(token)
}

func contactErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}
