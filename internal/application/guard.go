package application

import "github.com/oksasatya/blogsphere/internal/domain/entity"

// Operation names a protected or public action of the blog.
type Operation string

const (
	OpViewPost      Operation = "view_post"
	OpListPosts     Operation = "list_posts"
	OpSearchPosts   Operation = "search_posts"
	OpCreatePost    Operation = "create_post"
	OpEditPost      Operation = "edit_post"
	OpDeletePost    Operation = "delete_post"
	OpAddComment    Operation = "add_comment"
	OpViewProfile   Operation = "view_profile"
	OpUpdateProfile Operation = "update_profile"
)

// Policy states which checks an operation needs. Ownership is always checked
// against the target post after it has been loaded.
type Policy struct {
	Authenticated bool
	Ownership     bool
}

var policies = map[Operation]Policy{
	OpViewPost:      {},
	OpListPosts:     {},
	OpSearchPosts:   {},
	OpCreatePost:    {Authenticated: true},
	OpEditPost:      {Authenticated: true, Ownership: true},
	OpDeletePost:    {Authenticated: true, Ownership: true},
	OpAddComment:    {Authenticated: true},
	OpViewProfile:   {Authenticated: true},
	OpUpdateProfile: {Authenticated: true},
}

// PolicyFor returns the policy of op. Unknown operations require authentication.
func PolicyFor(op Operation) Policy {
	if p, ok := policies[op]; ok {
		return p
	}
	return Policy{Authenticated: true}
}

// RequireAuthenticated fails with ErrUnauthenticated for anonymous requests.
func RequireAuthenticated(rc RequestContext) (string, error) {
	uid, ok := rc.Principal()
	if !ok {
		return "", ErrUnauthenticated
	}
	return uid, nil
}

// RequireOwnership fails with ErrForbidden unless principal is the stored
// author of post. Only ids are compared.
func RequireOwnership(principal string, post *entity.Post) error {
	if principal == "" || post == nil || post.AuthorID != principal {
		return ErrForbidden
	}
	return nil
}

// Authorize applies the policy of op to rc; post is only consulted for
// operations that need ownership and must already be loaded.
func Authorize(op Operation, rc RequestContext, post *entity.Post) error {
	p := PolicyFor(op)
	if !p.Authenticated {
		return nil
	}
	uid, err := RequireAuthenticated(rc)
	if err != nil {
		return err
	}
	if p.Ownership {
		return RequireOwnership(uid, post)
	}
	return nil
}
