package identity_test

import (
	"context"
	"testing"

	"go-payroll/internal/identity"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_Accessors(t *testing.T) {
	acc := identity.NewAccountant(1, 7)
	id, ok := acc.AccountantID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	_, ok = acc.CompanyID()
	assert.False(t, ok)
	assert.True(t, acc.IsAccountant())
	assert.True(t, acc.Valid())

	cl := identity.NewClient(2, 5)
	cid, ok := cl.CompanyID()
	assert.True(t, ok)
	assert.Equal(t, int64(5), cid)
	_, ok = cl.AccountantID()
	assert.False(t, ok)
	assert.True(t, cl.IsClient())
}

func TestPrincipal_ZeroValueIsInvalid(t *testing.T) {
	var p identity.Principal
	assert.False(t, p.Valid())
	assert.False(t, identity.NewClient(3, 0).Valid())
}

func TestPrincipal_Context(t *testing.T) {
	ctx := identity.WithPrincipal(context.Background(), identity.NewClient(2, 5))

	p, ok := identity.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(2), p.UserID())

	_, ok = identity.FromContext(context.Background())
	assert.False(t, ok)
}
