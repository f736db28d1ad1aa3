package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mygigs/mygigs-backend/internal/models"
)

type memStore struct {
	mu  sync.Mutex
	txs map[primitive.ObjectID]*models.Transaction
}

func newMemStore() *memStore {
	return &memStore{txs: map[primitive.ObjectID]*models.Transaction{}}
}

func (m *memStore) Create(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	clone := *tx
	m.txs[tx.ID] = &clone
	return nil
}

func (m *memStore) SetAck(_ context.Context, id primitive.ObjectID, merchantID, checkoutID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok {
		return ErrNotFound
	}
	tx.MerchantRequestID = merchantID
	tx.CheckoutRequestID = checkoutID
	return nil
}

func (m *memStore) FindByCheckoutID(_ context.Context, checkoutID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.txs {
		if tx.CheckoutRequestID == checkoutID && checkoutID != "" {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) FindByMerchantID(_ context.Context, merchantID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.txs {
		if tx.MerchantRequestID == merchantID && merchantID != "" {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) LatestByClerkID(_ context.Context, clerkID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.Transaction
	for _, tx := range m.txs {
		if tx.ClerkID != clerkID {
			continue
		}
		if latest == nil || tx.CreatedAt.After(latest.CreatedAt) {
			latest = tx
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

func (m *memStore) ApplyResult(_ context.Context, id primitive.ObjectID, result ResultUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok {
		return ErrNotFound
	}
	code := result.ResultCode
	tx.ResultCode = &code
	tx.ResultDesc = result.ResultDesc
	if result.MpesaReceipt != "" {
		tx.MpesaReceipt = result.MpesaReceipt
	}
	if result.TransactionDate != "" {
		tx.TransactionDate = result.TransactionDate
	}
	if result.PhoneNumber != "" {
		tx.PhoneNumber = result.PhoneNumber
	}
	if result.Amount > 0 {
		tx.Amount = result.Amount
	}
	return nil
}

func (m *memStore) all() []*models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Transaction{}
	for _, tx := range m.txs {
		clone := *tx
		out = append(out, &clone)
	}
	return out
}

type fakeStk struct {
	tokenErr  error
	pushErr   error
	ack       *STKPushAck
	pushCalls int
}

func (f *fakeStk) Token(context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "test-token", nil
}

func (f *fakeStk) Push(_ context.Context, _, _ string, _ float64, _ string) (*STKPushAck, error) {
	f.pushCalls++
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	return f.ack, nil
}

type fakePromoter struct {
	promoted []string
	err      error
}

func (f *fakePromoter) PromoteToFreelancer(_ context.Context, clerkID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.promoted = append(f.promoted, clerkID)
	return &models.User{ClerkID: clerkID, Role: models.RoleFreelancer}, nil
}

type fakeMirror struct {
	mirrored []string
}

func (f *fakeMirror) MirrorFreelancerRole(clerkID string) {
	f.mirrored = append(f.mirrored, clerkID)
}

func defaultAck() *STKPushAck {
	return &STKPushAck{
		MerchantRequestID:   "M1",
		CheckoutRequestID:   "C1",
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
	}
}

func successCallback(merchantID, checkoutID string) *STKCallbackEnvelope {
	var env STKCallbackEnvelope
	env.Body.StkCallback = STKCallback{
		MerchantRequestID: merchantID,
		CheckoutRequestID: checkoutID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: CallbackMetadata{Item: []CallbackItem{
			{Name: "Amount", Value: float64(1000)},
			{Name: "MpesaReceiptNumber", Value: "NLJ7RT61SV"},
			{Name: "TransactionDate", Value: float64(20260830121530)},
			{Name: "PhoneNumber", Value: float64(254712345678)},
		}},
	}
	return &env
}

func TestInitiateCreatesPendingAttempt(t *testing.T) {
	store := newMemStore()
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, &fakePromoter{}, &fakeMirror{})

	ack, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)
	assert.Equal(t, "C1", ack.CheckoutRequestID)

	txs := store.all()
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].ResultCode)
	assert.Equal(t, "M1", txs[0].MerchantRequestID)
	assert.Equal(t, "C1", txs[0].CheckoutRequestID)
	assert.Equal(t, "user_2abc", txs[0].ClerkID)

	status, err := svc.StatusByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
}

func TestInitiateRejectsBadInput(t *testing.T) {
	store := newMemStore()
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, &fakePromoter{}, &fakeMirror{})

	cases := []struct {
		name          string
		phone, amount string
		clerkID       string
	}{
		{"non-numeric amount", "254712345678", "abc", "user_2abc"},
		{"zero amount", "254712345678", "0", "user_2abc"},
		{"negative amount", "254712345678", "-100", "user_2abc"},
		{"empty phone", "", "1000", "user_2abc"},
		{"empty clerk id", "254712345678", "1000", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Initiate(context.Background(), tc.phone, tc.amount, tc.clerkID)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	assert.Empty(t, store.all(), "invalid requests must not create rows")
}

func TestInitiateTokenFailureCreatesNoRow(t *testing.T) {
	store := newMemStore()
	stk := &fakeStk{tokenErr: ErrProviderUnreachable}
	svc := NewPaymentService(store, stk, &fakePromoter{}, &fakeMirror{})

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	assert.ErrorIs(t, err, ErrTokenUnavailable)
	assert.Empty(t, store.all())
	assert.Zero(t, stk.pushCalls)
}

func TestInitiatePushFailureLeavesOrphanedPendingRow(t *testing.T) {
	store := newMemStore()
	stk := &fakeStk{pushErr: fmt.Errorf("%w: connection refused", ErrProviderRequestFailed)}
	svc := NewPaymentService(store, stk, &fakePromoter{}, &fakeMirror{})

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	assert.ErrorIs(t, err, ErrProviderRequestFailed)

	txs := store.all()
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].ResultCode)
	assert.Empty(t, txs[0].CheckoutRequestID)
}

func TestResolveSuccessPromotesLinkedUser(t *testing.T) {
	store := newMemStore()
	promoter := &fakePromoter{}
	mirror := &fakeMirror{}
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, promoter, mirror)

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), successCallback("M1", "C1")))

	status, err := svc.StatusByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, status)

	tx, err := store.FindByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "NLJ7RT61SV", tx.MpesaReceipt)
	assert.Equal(t, "20260830121530", tx.TransactionDate)
	assert.Equal(t, "254712345678", tx.PhoneNumber)

	assert.Equal(t, []string{"user_2abc"}, promoter.promoted)
	assert.Equal(t, []string{"user_2abc"}, mirror.mirrored)
}

func TestResolveFailureLeavesRoleUnchanged(t *testing.T) {
	store := newMemStore()
	promoter := &fakePromoter{}
	mirror := &fakeMirror{}
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, promoter, mirror)

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)

	var env STKCallbackEnvelope
	env.Body.StkCallback = STKCallback{
		MerchantRequestID: "M1",
		CheckoutRequestID: "C1",
		ResultCode:        1,
		ResultDesc:        "Insufficient funds",
	}
	require.NoError(t, svc.Resolve(context.Background(), &env))

	status, err := svc.StatusByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, status)

	tx, err := store.FindByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "Insufficient funds", tx.ResultDesc)

	assert.Empty(t, promoter.promoted)
	assert.Empty(t, mirror.mirrored)
}

func TestResolveUnknownAttemptIsTerminalNonFatal(t *testing.T) {
	store := newMemStore()
	promoter := &fakePromoter{}
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, promoter, &fakeMirror{})

	err := svc.Resolve(context.Background(), successCallback("M-unknown", "C-unknown"))
	assert.NoError(t, err)
	assert.Empty(t, store.all())
	assert.Empty(t, promoter.promoted)
}

func TestResolveDuplicateCallbackConverges(t *testing.T) {
	store := newMemStore()
	promoter := &fakePromoter{}
	mirror := &fakeMirror{}
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, promoter, mirror)

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), successCallback("M1", "C1")))
	require.NoError(t, svc.Resolve(context.Background(), successCallback("M1", "C1")))

	status, err := svc.StatusByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, status)

	assert.Len(t, promoter.promoted, 1, "duplicate delivery must not re-promote")
	assert.Len(t, mirror.mirrored, 1)
}

func TestResolveMatchesByMerchantIDWhenCheckoutMissing(t *testing.T) {
	store := newMemStore()
	promoter := &fakePromoter{}
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, promoter, &fakeMirror{})

	_, err := svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), successCallback("M1", "")))

	status, err := svc.StatusByCheckoutID(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, status)
}

func TestStatusQueries(t *testing.T) {
	store := newMemStore()
	svc := NewPaymentService(store, &fakeStk{ack: defaultAck()}, &fakePromoter{}, &fakeMirror{})

	status, err := svc.StatusByCheckoutID(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFound, status)

	status, err = svc.StatusByClerkID(context.Background(), "user_none")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFound, status)

	_, err = svc.Initiate(context.Background(), "254712345678", "1000", "user_2abc")
	require.NoError(t, err)

	status, err = svc.StatusByClerkID(context.Background(), "user_2abc")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
}
