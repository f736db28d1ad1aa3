package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusDerivation(t *testing.T) {
	tx := &Transaction{}
	assert.Equal(t, StatusPending, tx.Status())
	assert.False(t, tx.Terminal())

	success := ResultCodeSuccess
	tx.ResultCode = &success
	assert.Equal(t, StatusSuccessful, tx.Status())
	assert.True(t, tx.Terminal())

	failed := 1032
	tx.ResultCode = &failed
	assert.Equal(t, StatusFailed, tx.Status())
	assert.True(t, tx.Terminal())
}
