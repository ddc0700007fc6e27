package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "accounts_email_key"}

	assert.True(t, IsUniqueViolation(err, "accounts_email_key"))
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsUniqueViolation(err, "other_key"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(driver.ErrBadConn))
	assert.True(t, IsUnavailable(fmt.Errorf("exec: %w", driver.ErrBadConn)))
	assert.True(t, IsUnavailable(&pq.Error{Code: "08006"}))
	assert.True(t, IsUnavailable(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))

	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(&pq.Error{Code: "23505"}))
	assert.False(t, IsUnavailable(errors.New("syntax error")))
}
