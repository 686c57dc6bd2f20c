package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

func TestScenario_OwnershipAcrossUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	alice, err := f.auth.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	aliceTok, _, err := f.session.CreateSession(ctx, alice)
	require.NoError(t, err)
	resolved, ok := f.session.Resolve(ctx, aliceTok)
	require.True(t, ok)
	require.Equal(t, alice, resolved)

	postID, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)
	p, err := f.content.GetPost(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, alice, p.AuthorID)
	assert.Equal(t, "alice", p.Author.Username)

	_, err = f.auth.Register(ctx, "bob", "pw2")
	require.NoError(t, err)
	bob, err := f.auth.Authenticate(ctx, "bob", "pw2")
	require.NoError(t, err)

	_, err = f.content.UpdatePost(ctx, bob, postID, UpdatePostInput{Title: "X", Body: "Y"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.content.DeletePost(ctx, bob, postID), ErrForbidden)

	updated, err := f.content.UpdatePost(ctx, alice, postID, UpdatePostInput{Title: "X", Body: "Y"})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "Y", updated.Body)
	assert.Equal(t, alice, updated.AuthorID)
	assert.Equal(t, 2, updated.Version)
}

func TestScenario_WrongPasswordIssuesNoSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.mustRegister("alice")

	_, err := f.auth.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := f.session.Resolve(ctx, "never-issued")
	assert.False(t, ok)
}

func TestScenario_DeleteTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")

	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	require.NoError(t, f.content.DeletePost(ctx, alice, id))
	assert.ErrorIs(t, f.content.DeletePost(ctx, alice, id), ErrNotFound)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")

	_, err := f.content.CreatePost(ctx, alice, "", "body")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.content.CreatePost(ctx, alice, "title", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.content.CreatePost(ctx, "", "title", "body")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	posts, err := f.content.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPost_NeverIssuedIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.content.GetPost(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)

	_, err = f.content.GetPost(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDelete_NotFoundBeforeOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bob := f.mustRegister("bob")

	_, err := f.content.UpdatePost(ctx, bob, "missing", UpdatePostInput{Title: "X", Body: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.content.DeletePost(ctx, bob, "missing"), ErrNotFound)
	_, err = f.content.GetPostForEdit(ctx, bob, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDelete_AnonymousIsUnauthenticated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	_, err = f.content.GetPostForEdit(ctx, "", id)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.content.UpdatePost(ctx, "", id, UpdatePostInput{Title: "X", Body: "Y"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, f.content.DeletePost(ctx, "", id), ErrUnauthenticated)

	p, err := f.content.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hi", p.Title)
}

func TestUpdatePost_StaleVersion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	_, err = f.content.UpdatePost(ctx, alice, id, UpdatePostInput{Title: "A", Body: "A", Version: 1})
	require.NoError(t, err)

	_, err = f.content.UpdatePost(ctx, alice, id, UpdatePostInput{Title: "B", Body: "B", Version: 1})
	assert.ErrorIs(t, err, ErrStaleVersion)

	p, err := f.content.UpdatePost(ctx, alice, id, UpdatePostInput{Title: "C", Body: "C"})
	require.NoError(t, err, "zero version is last write wins")
	assert.Equal(t, 3, p.Version)
}

func TestUpdatePost_ValidationAfterOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	bob := f.mustRegister("bob")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	_, err = f.content.UpdatePost(ctx, bob, id, UpdatePostInput{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.content.UpdatePost(ctx, alice, id, UpdatePostInput{Title: "X"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetPostForEdit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	bob := f.mustRegister("bob")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	p, err := f.content.GetPostForEdit(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)

	_, err = f.content.GetPostForEdit(ctx, bob, id)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListPosts_InsertionOrderWithAuthors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	bob := f.mustRegister("bob")

	for i := 0; i < 3; i++ {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		_, err := f.content.CreatePost(ctx, author, fmt.Sprintf("post %d", i), "body")
		require.NoError(t, err)
	}

	posts, err := f.content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i, p := range posts {
		assert.Equal(t, fmt.Sprintf("post %d", i), p.Title)
		require.NotNil(t, p.Author)
	}
	assert.Equal(t, "bob", posts[1].Author.Username)

	mine, err := f.content.ListPostsByAuthor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "post 2", mine[1].Title)
}

func TestAddComment_OrderAndStamping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	bob := f.mustRegister("bob")
	carol := f.mustRegister("carol")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	submitters := []string{bob, carol, alice, bob, carol}
	var last *entity.Post
	for i, who := range submitters {
		last, err = f.content.AddComment(ctx, who, id, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	require.Len(t, last.Comments, len(submitters))
	for i, c := range last.Comments {
		assert.Equal(t, fmt.Sprintf("comment %d", i), c.Content)
		assert.Equal(t, submitters[i], c.AuthorID)
		require.NotNil(t, c.Author)
		assert.Equal(t, submitters[i], c.Author.ID)
	}
	assert.Equal(t, alice, last.AuthorID, "commenting never changes the post author")
}

func TestAddComment_Failures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)

	_, err = f.content.AddComment(ctx, alice, "missing", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.content.AddComment(ctx, alice, id, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.content.AddComment(ctx, "", id, "hello")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveAuthors_DanglingIsStorageError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := &entity.Post{Title: "orphan", Body: "b", AuthorID: "ghost"}
	require.NoError(t, f.posts.Create(ctx, p))

	_, err := f.content.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = f.content.ListPosts(ctx)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestIndexingAndNotifications(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	idx := &recordingIndexer{}
	notes := &recordingNotifier{}
	f.content.Indexer = idx
	f.content.Notifier = notes

	alice := f.mustRegister("alice")
	bob := f.mustRegister("bob")
	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)
	_, err = f.content.UpdatePost(ctx, alice, id, UpdatePostInput{Title: "Hi2", Body: "Body2"})
	require.NoError(t, err)
	assert.Equal(t, []string{id, id}, idx.indexed)

	_, err = f.content.AddComment(ctx, alice, id, "own comment")
	require.NoError(t, err)
	assert.Empty(t, notes.sent, "authors are not notified of their own comments")

	_, err = f.content.AddComment(ctx, bob, id, "nice")
	require.NoError(t, err)
	require.Len(t, notes.sent, 1)
	assert.Equal(t, alice, notes.sent[0].Author.ID)
	assert.Equal(t, "bob", notes.sent[0].Commenter.Username)
	assert.Equal(t, "nice", notes.sent[0].Comment.Content)

	require.NoError(t, f.content.DeletePost(ctx, alice, id))
	assert.Equal(t, []string{id}, idx.removed)
}

func TestIndexFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.content.Indexer = &recordingIndexer{err: errBoom}
	alice := f.mustRegister("alice")

	id, err := f.content.CreatePost(ctx, alice, "Hi", "Body")
	require.NoError(t, err)
	require.NoError(t, f.content.DeletePost(ctx, alice, id))
}

func TestSearchPosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.mustRegister("alice")
	first, err := f.content.CreatePost(ctx, alice, "Go tips", "Body")
	require.NoError(t, err)
	second, err := f.content.CreatePost(ctx, alice, "More Go", "Body")
	require.NoError(t, err)

	got, err := f.content.SearchPosts(ctx, "go", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "no indexer configured")

	f.content.Indexer = &recordingIndexer{hits: []string{second, "deleted-id", first}}
	got, err = f.content.SearchPosts(ctx, "go", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, first, got[1].ID)
	assert.Equal(t, "alice", got[0].Author.Username)

	f.content.Indexer = &recordingIndexer{err: errBoom}
	_, err = f.content.SearchPosts(ctx, "go", 10)
	assert.ErrorIs(t, err, ErrStorage)
}
