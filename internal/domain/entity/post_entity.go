package entity

import "time"

// Post is the aggregate root for the content store. Comments are embedded and
// are not addressable on their own.
//
// AuthorID is set once at creation and never reassigned. Version starts at 1
// and is bumped by every update.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	Author    *Author   `json:"author,omitempty"`
	Comments  []Comment `json:"comments"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is appended to a post by an authenticated user; never edited.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Author    *Author   `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorIDs returns the distinct user ids referenced by the post and its comments.
func (p *Post) AuthorIDs() []string {
	seen := make(map[string]struct{}, len(p.Comments)+1)
	out := make([]string, 0, len(p.Comments)+1)
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(p.AuthorID)
	for _, c := range p.Comments {
		add(c.AuthorID)
	}
	return out
}
