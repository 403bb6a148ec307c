package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaclone/auth"
	"instaclone/domain"
	"instaclone/errs"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	ts := auth.NewTokenService("test-secret", time.Hour)

	token, err := ts.Generate("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	ts := auth.NewTokenService("test-secret", time.Hour)

	for _, token := range []string{
		"",
		"garbage",
		domain.PlaceholderToken,
	} {
		_, err := ts.Validate(token)
		assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err), "token %q", token)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewTokenService("secret-a", time.Hour).Generate("42")
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret-b", time.Hour).Validate(token)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	ts := auth.NewTokenService("test-secret", -time.Minute)
	token, err := ts.Generate("42")
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := auth.NewContext(context.Background(), "42")
	assert.Equal(t, "42", auth.UserIDFromContext(ctx))
	assert.Equal(t, "", auth.UserIDFromContext(context.Background()))
}
