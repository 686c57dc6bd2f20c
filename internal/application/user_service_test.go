package application

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/pkg/helpers"
)

type fakeAvatars struct {
	gotUser string
	gotBody string
	err     error
}

func (f *fakeAvatars) UploadAvatar(_ context.Context, userID string, r io.Reader, filename, _ string) (string, error) {
	b, _ := io.ReadAll(r)
	f.gotUser = userID
	f.gotBody = string(b)
	return "https://cdn.test/avatars/" + userID + "/" + filename, f.err
}

func TestUserService_Profile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	svc := NewUserService(f.users, nil, helpers.NewDiscardLogger())

	u, err := svc.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = svc.UpdateProfile(ctx, alice, UpdateProfileInput{FullName: "Alice A.", Bio: "hi", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", u.FullName)

	stored, err := f.users.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "a@example.com", stored.Email)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "alice-pw"), "credentials untouched")

	_, err = svc.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Avatar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")

	_, err := NewUserService(f.users, nil, nil).UploadAvatar(ctx, alice, strings.NewReader("img"), "me.png", "image/png")
	assert.ErrorIs(t, err, ErrUnavailable)

	avatars := &fakeAvatars{}
	u, err := NewUserService(f.users, avatars, nil).UploadAvatar(ctx, alice, strings.NewReader("img"), "me.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, alice, avatars.gotUser)
	assert.Equal(t, "img", avatars.gotBody)
	assert.Equal(t, "https://cdn.test/avatars/"+alice+"/me.png", u.AvatarURL)

	avatars.err = errBoom
	_, err = NewUserService(f.users, avatars, nil).UploadAvatar(ctx, alice, strings.NewReader("img"), "me.png", "image/png")
	assert.ErrorIs(t, err, ErrStorage)
}
