package autocar

import (
	"strings"
	"time"

	"github.com/autocaravecchauffeur/autocar/content"
)

// FilterPosts keeps the posts whose title or excerpt contains query,
// ignoring case. A blank query keeps every post.
func FilterPosts(posts []content.BlogPost, query string) []content.BlogPost {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts
	}
	var out []content.BlogPost
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) {
			out = append(out, p)
		}
	}
	return out
}

// Latest returns at most n posts from the head of posts.
func Latest(posts []content.BlogPost, n int) []content.BlogPost {
	if len(posts) > n {
		return posts[:n]
	}
	return posts
}

// lastModified is the most recent of a post's update and publication
// times, or the zero time.
func lastModified(p content.BlogPost) time.Time {
	t := p.UpdatedAt
	if p.PublishedAt != nil && p.PublishedAt.After(t) {
		t = *p.PublishedAt
	}
	return t
}
