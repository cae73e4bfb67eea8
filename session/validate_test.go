package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	t.Run("accepts and trims", func(t *testing.T) {
		got, err := validateEmail("  staff1@gmail.com ")
		require.NoError(t, err)
		assert.Equal(t, "staff1@gmail.com", got)
	})

	for _, bad := range []string{"", "not-an-email", "a@b", "a b@c.com", "@c.com"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := validateEmail(bad)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "email", valErr.Field)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("staff123"))

	var valErr *ValidationError
	require.ErrorAs(t, validatePassword(""), &valErr)
	assert.Equal(t, "password", valErr.Field)

	require.ErrorAs(t, validatePassword("ab"), &valErr)
	assert.Equal(t, "password", valErr.Field)
}
