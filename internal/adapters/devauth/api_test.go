package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	apperrors "github.com/campuskit/campus-client/internal/errors"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	api, err := NewAPI(Config{UserID: "dev-user", Name: "Dev User", Role: "faculty", Token: "dev-token"})
	require.NoError(t, err)
	return api
}

func TestNewAPIValidation(t *testing.T) {
	_, err := NewAPI(Config{Role: "faculty", Token: "t"})
	require.Error(t, err)
	_, err = NewAPI(Config{UserID: "u", Role: "faculty"})
	require.Error(t, err)
	_, err = NewAPI(Config{UserID: "u", Role: "wizard", Token: "t"})
	require.Error(t, err)
}

func TestLoginAcceptsAnyPasswordForConfiguredUser(t *testing.T) {
	api := newTestAPI(t)

	creds, err := api.Login(context.Background(), "dev-user", "anything")
	require.NoError(t, err)
	assert.Equal(t, "dev-token", creds.Token)
	assert.Equal(t, domainauth.RoleFaculty, creds.User.Role)

	_, err = api.Login(context.Background(), "someone-else", "anything")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestValidate(t *testing.T) {
	api := newTestAPI(t)

	user, err := api.Validate(context.Background(), "dev-token")
	require.NoError(t, err)
	assert.Equal(t, "dev-user", user.ID)

	_, err = api.Validate(context.Background(), "other-token")
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionValidation(err))
}
