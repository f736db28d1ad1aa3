package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mygigs/mygigs-backend/internal/models"
)

// TransactionStore is the durable record of payment attempts.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	SetAck(ctx context.Context, id primitive.ObjectID, merchantRequestID, checkoutRequestID string) error
	FindByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error)
	FindByMerchantID(ctx context.Context, merchantRequestID string) (*models.Transaction, error)
	LatestByClerkID(ctx context.Context, clerkID string) (*models.Transaction, error)
	ApplyResult(ctx context.Context, id primitive.ObjectID, result ResultUpdate) error
}

// ResultUpdate is the callback outcome written onto a pending attempt.
type ResultUpdate struct {
	ResultCode      int
	ResultDesc      string
	Amount          float64
	MpesaReceipt    string
	TransactionDate string
	PhoneNumber     string
}

// StkClient is the provider side of an initiation: token plus push.
type StkClient interface {
	Token(ctx context.Context) (string, error)
	Push(ctx context.Context, token, phone string, amount float64, accountRef string) (*STKPushAck, error)
}

// RolePromoter performs the authoritative local role update.
type RolePromoter interface {
	PromoteToFreelancer(ctx context.Context, clerkID string) (*models.User, error)
}

// RoleMirror is the best-effort propagation of a role change to the identity
// provider. Implementations must not block the caller.
type RoleMirror interface {
	MirrorFreelancerRole(clerkID string)
}

// PaymentService runs the push-payment flow: initiation, callback
// resolution, and status queries.
type PaymentService struct {
	store  TransactionStore
	stk    StkClient
	users  RolePromoter
	mirror RoleMirror
}

func NewPaymentService(store TransactionStore, stk StkClient, users RolePromoter, mirror RoleMirror) *PaymentService {
	return &PaymentService{store: store, stk: stk, users: users, mirror: mirror}
}

// Initiate validates the request, records a pending attempt, and sends the
// STK push. The pending row is written before the provider call; if the call
// fails the row remains as an orphaned pending attempt. Nothing is retried.
func (s *PaymentService) Initiate(ctx context.Context, phone, amount, clerkID string) (*STKPushAck, error) {
	phone = strings.TrimSpace(phone)
	clerkID = strings.TrimSpace(clerkID)
	amt, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || amt <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidRequest)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone_number is required", ErrInvalidRequest)
	}
	if clerkID == "" {
		return nil, fmt.Errorf("%w: clerk_id is required", ErrInvalidRequest)
	}

	token, err := s.stk.Token(ctx)
	if err != nil {
		log.Printf("Failed to obtain provider token: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	accountRef := "MYGIGS-" + strings.ToUpper(uuid.NewString()[:8])
	tx := &models.Transaction{
		PhoneNumber:      phone,
		Amount:           amt,
		AccountReference: accountRef,
		ClerkID:          clerkID,
	}
	if err := s.store.Create(ctx, tx); err != nil {
		log.Printf("Failed to record payment attempt for %s: %v", clerkID, err)
		return nil, err
	}

	ack, err := s.stk.Push(ctx, token, phone, amt, accountRef)
	if err != nil {
		log.Printf("STK push failed for attempt %s: %v", tx.ID.Hex(), err)
		return nil, err
	}

	// Ack write-back is best effort; the row already exists and the caller
	// has the ack either way.
	if err := s.store.SetAck(ctx, tx.ID, ack.MerchantRequestID, ack.CheckoutRequestID); err != nil {
		log.Printf("Failed to record ack ids on attempt %s: %v", tx.ID.Hex(), err)
	}

	log.Printf("STK push initiated: checkout_request_id=%s clerk_id=%s", ack.CheckoutRequestID, clerkID)
	return ack, nil
}

// Resolve matches an inbound callback to a stored attempt and applies its
// outcome. Unknown attempts and re-delivered callbacks are logged and
// dropped; the HTTP layer acknowledges the provider regardless of what
// happens here.
func (s *PaymentService) Resolve(ctx context.Context, env *STKCallbackEnvelope) error {
	cb := env.Body.StkCallback

	tx, err := s.store.FindByCheckoutID(ctx, cb.CheckoutRequestID)
	if errors.Is(err, ErrNotFound) && cb.MerchantRequestID != "" {
		tx, err = s.store.FindByMerchantID(ctx, cb.MerchantRequestID)
	}
	if errors.Is(err, ErrNotFound) {
		log.Printf("Callback for unknown attempt: checkout_request_id=%s merchant_request_id=%s", cb.CheckoutRequestID, cb.MerchantRequestID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to match callback %s: %w", cb.CheckoutRequestID, err)
	}

	if tx.Terminal() {
		log.Printf("Duplicate callback for resolved attempt %s, ignoring", cb.CheckoutRequestID)
		return nil
	}

	result := ResultUpdate{
		ResultCode: cb.ResultCode,
		ResultDesc: cb.ResultDesc,
	}
	if cb.ResultCode == models.ResultCodeSuccess {
		result.Amount = cb.CallbackMetadata.Amount()
		result.MpesaReceipt = cb.CallbackMetadata.Receipt()
		result.TransactionDate = cb.CallbackMetadata.TransactionDate()
		result.PhoneNumber = cb.CallbackMetadata.Phone()
	}

	if err := s.store.ApplyResult(ctx, tx.ID, result); err != nil {
		return fmt.Errorf("failed to apply result to attempt %s: %w", cb.CheckoutRequestID, err)
	}
	log.Printf("Callback resolved: checkout_request_id=%s result_code=%d", cb.CheckoutRequestID, cb.ResultCode)

	if cb.ResultCode != models.ResultCodeSuccess {
		return nil
	}

	user, err := s.users.PromoteToFreelancer(ctx, tx.ClerkID)
	if errors.Is(err, ErrNotFound) {
		log.Printf("No user found for clerk_id %s, skipping promotion", tx.ClerkID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to promote user %s: %w", tx.ClerkID, err)
	}
	log.Printf("User %s promoted to freelancer after payment %s", user.ClerkID, cb.CheckoutRequestID)

	s.mirror.MirrorFreelancerRole(tx.ClerkID)
	return nil
}

// StatusByCheckoutID reports an attempt's derived state. Missing attempts
// report not_found, never an error; callers cannot distinguish "never
// existed" from "not visible".
func (s *PaymentService) StatusByCheckoutID(ctx context.Context, checkoutRequestID string) (string, error) {
	tx, err := s.store.FindByCheckoutID(ctx, checkoutRequestID)
	if errors.Is(err, ErrNotFound) {
		return models.StatusNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return tx.Status(), nil
}

// StatusByClerkID reports the state of the caller's latest attempt.
func (s *PaymentService) StatusByClerkID(ctx context.Context, clerkID string) (string, error) {
	tx, err := s.store.LatestByClerkID(ctx, clerkID)
	if errors.Is(err, ErrNotFound) {
		return models.StatusNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return tx.Status(), nil
}
