package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction statuses derived from the stored result code.
const (
	StatusPending    = "pending"
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
	StatusNotFound   = "not_found"
)

// ResultCodeSuccess is the provider's terminal success code.
const ResultCodeSuccess = 0

// Transaction is one STK push attempt. MerchantRequestID and
// CheckoutRequestID are set from the provider's acknowledgement and are the
// only keys the asynchronous callback can be matched by. The outcome fields
// stay unset until the callback arrives.
type Transaction struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MerchantRequestID string             `bson:"merchant_request_id,omitempty" json:"merchant_request_id,omitempty"`
	CheckoutRequestID string             `bson:"checkout_request_id,omitempty" json:"checkout_request_id,omitempty"`
	PhoneNumber       string             `bson:"phone_number" json:"phone_number"`
	Amount            float64            `bson:"amount" json:"amount"`
	AccountReference  string             `bson:"account_reference" json:"account_reference"`
	ClerkID           string             `bson:"clerk_id" json:"clerk_id"`

	ResultCode      *int   `bson:"result_code,omitempty" json:"result_code,omitempty"`
	ResultDesc      string `bson:"result_desc,omitempty" json:"result_desc,omitempty"`
	MpesaReceipt    string `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	TransactionDate string `bson:"transaction_date,omitempty" json:"transaction_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Status derives the attempt's state from the result code. There is no
// stored status field; this is the single source of truth.
func (t *Transaction) Status() string {
	if t.ResultCode == nil {
		return StatusPending
	}
	if *t.ResultCode == ResultCodeSuccess {
		return StatusSuccessful
	}
	return StatusFailed
}

// Terminal reports whether a callback has already resolved this attempt.
func (t *Transaction) Terminal() bool {
	return t.ResultCode != nil
}
