package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	category := s.seedCategory(t, "go", true)
	post := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID), "", map[string]interface{}{
		"text": "anonymous comment",
	})
	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Errorf("Expected redirect to login, got %s", loc)
	}

	// No record was created
	var count int64
	if err := s.gdb.Model(&models.Comment{}).Count(&count).Error; err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no comments, got %d", count)
	}
}

func TestCommentCreateAndListing(t *testing.T) {
	s := newTestServer(t)
	alice, aliceToken := s.seedUser(t, "alice")
	_, bobToken := s.seedUser(t, "bob")
	category := s.seedCategory(t, "go", true)
	post := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	for i, token := range []string{aliceToken, bobToken} {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID), token, map[string]interface{}{
			"text": fmt.Sprintf("comment %d", i+1),
		})
		if w.Code != http.StatusFound {
			t.Fatalf("Expected 302 after comment, got %d: %s", w.Code, w.Body.String())
		}
		if loc := w.Header().Get("Location"); loc != fmt.Sprintf("/posts/%d", post.ID) {
			t.Errorf("Expected redirect to post detail, got %s", loc)
		}
	}

	// Detail lists comments oldest first with the live count
	w := s.do(t, http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	comments := body["comments"].([]interface{})
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	first := comments[0].(map[string]interface{})
	if first["text"] != "comment 1" {
		t.Errorf("Expected oldest comment first, got %v", first["text"])
	}
	postBody := body["post"].(map[string]interface{})
	if postBody["comment_count"].(float64) != 2 {
		t.Errorf("Expected comment_count 2, got %v", postBody["comment_count"])
	}
}

func TestCommentOnHiddenPostNotFound(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	_, bobToken := s.seedUser(t, "bob")
	category := s.seedCategory(t, "go", true)
	draft := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), false)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/comments", draft.ID), bobToken, map[string]interface{}{
		"text": "probing",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 commenting on a hidden post, got %d", w.Code)
	}
}

func TestNonOwnerCommentMutationRedirects(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	_, bobToken := s.seedUser(t, "bob")
	category := s.seedCategory(t, "go", true)
	post := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	comment := &models.Comment{
		Text:        "original",
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
		PostID:      post.ID,
		AuthorID:    alice.ID,
	}
	if err := db.NewCommentRepository(s.repo).Create(context.Background(), comment); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	path := fmt.Sprintf("/posts/%d/comments/%d", post.ID, comment.ID)

	w := s.do(t, http.MethodPut, path, bobToken, map[string]interface{}{"text": "hijacked"})
	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != fmt.Sprintf("/posts/%d", post.ID) {
		t.Errorf("Expected redirect to post detail, got %s", loc)
	}

	got, _ := db.NewCommentRepository(s.repo).GetByID(context.Background(), comment.ID)
	if got.Text != "original" {
		t.Errorf("Comment should be unchanged, text is %q", got.Text)
	}

	w = s.do(t, http.MethodDelete, path, bobToken, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	got, _ = db.NewCommentRepository(s.repo).GetByID(context.Background(), comment.ID)
	if got == nil {
		t.Error("Comment should survive a non-owner delete")
	}
}

func TestOwnerCommentMutations(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.seedUser(t, "alice")
	bob, bobToken := s.seedUser(t, "bob")
	category := s.seedCategory(t, "go", true)
	post := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	comment := &models.Comment{
		Text:        "original",
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
		PostID:      post.ID,
		AuthorID:    bob.ID,
	}
	if err := db.NewCommentRepository(s.repo).Create(context.Background(), comment); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	path := fmt.Sprintf("/posts/%d/comments/%d", post.ID, comment.ID)

	w := s.do(t, http.MethodPut, path, bobToken, map[string]interface{}{"text": "edited"})
	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d: %s", w.Code, w.Body.String())
	}
	got, _ := db.NewCommentRepository(s.repo).GetByID(context.Background(), comment.ID)
	if got.Text != "edited" {
		t.Errorf("Expected edited text, got %q", got.Text)
	}

	w = s.do(t, http.MethodDelete, path, bobToken, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	got, _ = db.NewCommentRepository(s.repo).GetByID(context.Background(), comment.ID)
	if got != nil {
		t.Error("Comment should be gone after owner delete")
	}
}

func TestCommentPostMismatchNotFound(t *testing.T) {
	s := newTestServer(t)
	alice, token := s.seedUser(t, "alice")
	category := s.seedCategory(t, "go", true)
	postA := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)
	postB := s.seedPost(t, alice, category, time.Now().UTC().Add(-time.Hour), true)

	comment := &models.Comment{
		Text:        "on A",
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
		PostID:      postA.ID,
		AuthorID:    alice.ID,
	}
	if err := db.NewCommentRepository(s.repo).Create(context.Background(), comment); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	// Addressing the comment through the wrong post is a 404
	w := s.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d/comments/%d", postB.ID, comment.ID), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for mismatched post, got %d", w.Code)
	}
}
