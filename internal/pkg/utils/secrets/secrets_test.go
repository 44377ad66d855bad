package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	phc, err := HashSecret("sekrit", "pepper")
	require.NoError(t, err)
	assert.Contains(t, phc, "$argon2id$")

	ok, err := VerifySecret("sekrit", "pepper", phc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret("wrong", "pepper", phc)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifySecret("sekrit", "other-pepper", phc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecretEmpty(t *testing.T) {
	_, err := HashSecret("", "pepper")
	assert.Error(t, err)
}

func TestVerifySecretBadFormat(t *testing.T) {
	_, err := VerifySecret("sekrit", "pepper", "$bcrypt$nope")
	assert.Error(t, err)
}
