package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/models"
)

// commentCountSelect annotates each post with its live comment count
const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// feedOrder is the ordering shared by all feeds: newest first
const feedOrder = "posts.pub_date DESC, posts.id DESC"

// FeedPage is one page of a post feed
type FeedPage struct {
	Posts    []models.Post `json:"posts"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// Visible restricts a post query to publicly visible posts: published,
// not future-dated, and in a published category. The category join is an
// inner join, so posts without a category are excluded as well.
func Visible(now time.Time) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Joins("JOIN categories ON categories.id = posts.category_id AND categories.is_published = ?", true).
			Where("posts.is_published = ? AND posts.pub_date < ?", true, now)
	}
}

// IndexFeed returns one page of all publicly visible posts
func (r *PostRepository) IndexFeed(ctx context.Context, now time.Time, page, pageSize int) (*FeedPage, error) {
	query := Visible(now)(r.db.WithContext(ctx).Model(&models.Post{}))
	return r.paginate(query, page, pageSize)
}

// CategoryFeed returns one page of publicly visible posts in a category
func (r *PostRepository) CategoryFeed(ctx context.Context, categoryID int64, now time.Time, page, pageSize int) (*FeedPage, error) {
	query := Visible(now)(r.db.WithContext(ctx).Model(&models.Post{})).
		Where("posts.category_id = ?", categoryID)
	return r.paginate(query, page, pageSize)
}

// ProfileFeed returns one page of a user's posts. When includeHidden is set
// (the profile owner viewing their own feed) drafts and future-dated posts
// are included; otherwise the public visibility rules apply.
func (r *PostRepository) ProfileFeed(ctx context.Context, authorID int64, includeHidden bool, now time.Time, page, pageSize int) (*FeedPage, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("posts.author_id = ?", authorID)
	if !includeHidden {
		query = Visible(now)(query)
	}
	return r.paginate(query, page, pageSize)
}

// paginate runs the composed feed query for one page. An out-of-range page
// yields an empty post list, never items of an adjacent page.
func (r *PostRepository) paginate(query *gorm.DB, page, pageSize int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := query.
		Select(commentCountSelect).
		Order(feedOrder).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return &FeedPage{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// GetByID retrieves a post by ID with its author, category and location,
// annotated with its comment count
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Omit("Author", "Category", "Location").
		Save(post).Error
}

// Delete removes a post together with its comments
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
