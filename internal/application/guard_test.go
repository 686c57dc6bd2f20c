package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

func TestRequestContext(t *testing.T) {
	anon := Anonymous()
	_, ok := anon.Principal()
	assert.False(t, ok)
	assert.False(t, anon.IsAuthenticated())
	assert.Equal(t, anon, RequestContext{})

	rc := NewRequestContext("u1")
	uid, ok := rc.Principal()
	assert.True(t, ok)
	assert.Equal(t, "u1", uid)
}

func TestRequireAuthenticated(t *testing.T) {
	_, err := RequireAuthenticated(Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	uid, err := RequireAuthenticated(NewRequestContext("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestRequireOwnership(t *testing.T) {
	post := &entity.Post{ID: "p1", AuthorID: "alice-id", Author: &entity.Author{ID: "alice-id", Username: "alice"}}

	assert.NoError(t, RequireOwnership("alice-id", post))
	assert.ErrorIs(t, RequireOwnership("bob-id", post), ErrForbidden)
	assert.ErrorIs(t, RequireOwnership("alice", post), ErrForbidden, "usernames are not identities")
	assert.ErrorIs(t, RequireOwnership("", post), ErrForbidden)
	assert.ErrorIs(t, RequireOwnership("alice-id", nil), ErrForbidden)
}

func TestAuthorize_PolicyTable(t *testing.T) {
	post := &entity.Post{ID: "p1", AuthorID: "alice"}
	anon := Anonymous()
	alice := NewRequestContext("alice")
	bob := NewRequestContext("bob")

	cases := []struct {
		op    Operation
		rc    RequestContext
		want  error
		label string
	}{
		{OpViewPost, anon, nil, "anyone reads a post"},
		{OpListPosts, anon, nil, "anyone lists posts"},
		{OpSearchPosts, anon, nil, "anyone searches"},
		{OpCreatePost, anon, ErrUnauthenticated, "create needs login"},
		{OpCreatePost, bob, nil, "any user creates"},
		{OpAddComment, anon, ErrUnauthenticated, "comment needs login"},
		{OpAddComment, bob, nil, "any user comments"},
		{OpViewProfile, anon, ErrUnauthenticated, "profile needs login"},
		{OpUpdateProfile, alice, nil, "own profile"},
		{OpEditPost, anon, ErrUnauthenticated, "edit needs login first"},
		{OpEditPost, bob, ErrForbidden, "edit by stranger"},
		{OpEditPost, alice, nil, "edit by author"},
		{OpDeletePost, bob, ErrForbidden, "delete by stranger"},
		{OpDeletePost, alice, nil, "delete by author"},
		{Operation("unknown"), anon, ErrUnauthenticated, "unknown ops are closed"},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			err := Authorize(tc.op, tc.rc, post)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
