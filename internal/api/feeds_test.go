package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// feedPosts extracts the post list from either a bare feed page or a
// response that nests one under a "feed" key.
func feedPosts(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()

	if nested, ok := body["feed"].(map[string]interface{}); ok {
		body = nested
	}
	posts, ok := body["posts"].([]interface{})
	if !ok {
		t.Fatalf("Expected a posts array in response: %v", body)
	}
	return posts
}

func TestIndexFeedOrdering(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	category := s.seedCategory(t, "go", true)

	now := time.Now().UTC()
	oldest := s.seedPost(t, alice, category, now.Add(-3*time.Hour), true)
	newest := s.seedPost(t, alice, category, now.Add(-time.Hour), true)
	middle := s.seedPost(t, alice, category, now.Add(-2*time.Hour), true)

	w := s.do(t, http.MethodGet, "/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	posts := feedPosts(t, decodeBody(t, w))
	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}

	wantOrder := []int64{newest.ID, middle.ID, oldest.ID}
	for i, raw := range posts {
		post := raw.(map[string]interface{})
		if int64(post["id"].(float64)) != wantOrder[i] {
			t.Errorf("Position %d: expected post %d, got %v", i, wantOrder[i], post["id"])
		}
	}
}

func TestCategoryFeed(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	golang := s.seedCategory(t, "go", true)
	other := s.seedCategory(t, "misc", true)
	s.seedCategory(t, "drafts", false)

	now := time.Now().UTC()
	inCategory := s.seedPost(t, alice, golang, now.Add(-time.Hour), true)
	s.seedPost(t, alice, other, now.Add(-time.Hour), true)

	w := s.do(t, http.MethodGet, "/categories/go/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	cat, ok := body["category"].(map[string]interface{})
	if !ok || cat["slug"] != "go" {
		t.Errorf("Expected category go in response, got %v", body["category"])
	}
	posts := feedPosts(t, body)
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if int64(posts[0].(map[string]interface{})["id"].(float64)) != inCategory.ID {
		t.Errorf("Expected post %d in category feed", inCategory.ID)
	}

	// An unpublished category is indistinguishable from a missing one
	for _, slug := range []string{"drafts", "missing"} {
		w = s.do(t, http.MethodGet, "/categories/"+slug+"/posts", "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for category %s, got %d", slug, w.Code)
		}
	}
}

func TestFeedPaginationParams(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	category := s.seedCategory(t, "go", true)

	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		s.seedPost(t, alice, category, now.Add(-time.Duration(i+1)*time.Minute), true)
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?page=1", 10},
		{"?page=2", 5},
		{"?page=3", 0},
		{"?page=garbage", 10},
		{"?page=-1", 10},
	}
	for _, tc := range cases {
		w := s.do(t, http.MethodGet, "/posts"+tc.query, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Query %q: expected 200, got %d", tc.query, w.Code)
		}
		body := decodeBody(t, w)
		if got := len(feedPosts(t, body)); got != tc.want {
			t.Errorf("Query %q: expected %d posts, got %d", tc.query, tc.want, got)
		}
		if total := int64(body["total"].(float64)); total != 15 {
			t.Errorf("Query %q: expected total 15, got %d", tc.query, total)
		}
	}
}

func TestProfileFeed(t *testing.T) {
	s := newTestServer(t)
	alice, aliceToken := s.seedUser(t, "alice")
	_, bobToken := s.seedUser(t, "bob")
	category := s.seedCategory(t, "go", true)

	now := time.Now().UTC()
	s.seedPost(t, alice, category, now.Add(-time.Hour), true)
	s.seedPost(t, alice, category, now.Add(time.Hour), true)   // scheduled
	s.seedPost(t, alice, category, now.Add(-time.Hour), false) // draft

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", 1},
		{"other user", bobToken, 1},
		{"owner", aliceToken, 3},
	}
	for _, tc := range cases {
		w := s.do(t, http.MethodGet, "/users/alice/posts", tc.token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.name, w.Code)
		}
		if got := len(feedPosts(t, decodeBody(t, w))); got != tc.want {
			t.Errorf("%s: expected %d posts, got %d", tc.name, tc.want, got)
		}
	}

	w := s.do(t, http.MethodGet, "/users/nobody/posts", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing user, got %d", w.Code)
	}
}

func TestUserShow(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "alice")

	w := s.do(t, http.MethodGet, "/users/alice", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	profile, ok := decodeBody(t, w)["profile"].(map[string]interface{})
	if !ok || profile["username"] != "alice" {
		t.Errorf("Expected alice's profile, got %v", profile)
	}
	if _, leaked := profile["password_hash"]; leaked {
		t.Error("Password hash must never appear in responses")
	}

	w = s.do(t, http.MethodGet, "/users/nobody", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing user, got %d", w.Code)
	}
}

func TestFeedCommentCounts(t *testing.T) {
	s := newTestServer(t)
	alice, token := s.seedUser(t, "alice")
	category := s.seedCategory(t, "go", true)
	post := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	for i := 0; i < 3; i++ {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID), token, map[string]interface{}{
			"text": fmt.Sprintf("comment %d", i),
		})
		if w.Code != http.StatusFound {
			t.Fatalf("Comment %d: expected 302, got %d", i, w.Code)
		}
	}

	w := s.do(t, http.MethodGet, "/posts", "", nil)
	posts := feedPosts(t, decodeBody(t, w))
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if count := int64(posts[0].(map[string]interface{})["comment_count"].(float64)); count != 3 {
		t.Errorf("Expected comment_count 3, got %d", count)
	}
}
