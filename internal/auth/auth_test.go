package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42", secret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-42", claims.UserID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-42", secret)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("other-secret"))
	require.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", secret)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "01712345678", want: "+8801712345678"},
		{in: "+8801712345678", want: "+8801712345678"},
		{in: "8801712345678", want: "+8801712345678"},
		{in: "017 1234-5678", want: "+8801712345678"},
		{in: "1712345678", want: "+8801712345678"},
		{in: "01212345678", wantErr: true}, // 12x is not a valid operator prefix
		{in: "0171234567", wantErr: true},  // too short
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeMobile(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
