package authn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	testCases := map[string]struct {
		hash          string
		password      string
		expected      bool
		expectedError bool
	}{
		"should match correct password":    {hash: hash, password: "s3cret!", expected: true},
		"should not match wrong password":  {hash: hash, password: "wrong", expected: false},
		"should return error for bad hash": {hash: "plain", password: "s3cret!", expectedError: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ok, err := CheckPassword(tc.hash, tc.password)

			if tc.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}
