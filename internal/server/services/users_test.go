package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/server/auth"
	"github.com/daydash-app/daydash/internal/server/repositories/users"
)

const testSecret = "test-secret"

func newUserService() *UserService {
	return NewUserService(users.NewMemoryRepository(), testSecret, time.Hour)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	regToken, err := svc.Register(ctx, "alice", "pa55word")
	require.NoError(t, err)
	require.NotEmpty(t, regToken)

	loginToken, err := svc.Login(ctx, "alice", "pa55word")
	require.NoError(t, err)

	regID, err := auth.GetUserIDFromToken(regToken, []byte(testSecret))
	require.NoError(t, err)
	loginID, err := auth.GetUserIDFromToken(loginToken, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, regID, loginID)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUserService_RegisterEmptyCredentials(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	assert.Error(t, err)
	_, err = svc.Register(ctx, "alice", "")
	assert.Error(t, err)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}

func TestUserService_LoginUnknownUser(t *testing.T) {
	svc := newUserService()
	_, err := svc.Login(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}
