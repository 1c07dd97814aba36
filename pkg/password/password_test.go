package password

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash(context.Background(), "P4ssword")
	require.NoError(t, err)
	assert.NotEqual(t, "P4ssword", hash)

	assert.NoError(t, hasher.Compare(context.Background(), hash, "P4ssword"))
	assert.ErrorIs(t, hasher.Compare(context.Background(), hash, "p4ssword"), ErrMismatch)
}

func TestHash_Salted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash(context.Background(), "P4ssword")
	require.NoError(t, err)
	second, err := hasher.Hash(context.Background(), "P4ssword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewHasher_ClampsCost(t *testing.T) {
	hasher := NewHasher(999)

	hash, err := hasher.Hash(context.Background(), "P4ssword")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHash_CancelledContext(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "P4ssword")
	assert.Error(t, err)
}
