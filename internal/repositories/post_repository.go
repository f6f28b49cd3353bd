package repositories

import (
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/pagination"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations, including
// the four feed queries. Every feed eagerly loads author and group and
// carries a comment count computed by a single aggregate join.
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	CountByAuthor(authorID uint) (int64, error)

	GlobalFeed(page pagination.Spec) ([]models.Post, pagination.Meta, error)
	GroupFeed(groupID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error)
	AuthorFeed(authorID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error)
	FollowingFeed(userID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists changed text, group and image. CreatedAt and author
// never change after creation.
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Model(post).Select("text", "group_id", "image_path").Updates(map[string]interface{}{
		"text":       post.Text,
		"group_id":   post.GroupID,
		"image_path": post.ImagePath,
	}).Error
}

func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostgresPostRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// GlobalFeed returns every post, newest first.
func (r *PostgresPostRepository) GlobalFeed(page pagination.Spec) ([]models.Post, pagination.Meta, error) {
	return r.feed(func(q *gorm.DB) *gorm.DB { return q }, page)
}

// GroupFeed returns the global feed filtered to one group.
func (r *PostgresPostRepository) GroupFeed(groupID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error) {
	return r.feed(func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.group_id = ?", groupID)
	}, page)
}

// AuthorFeed returns the global feed filtered to one author.
func (r *PostgresPostRepository) AuthorFeed(authorID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error) {
	return r.feed(func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id = ?", authorID)
	}, page)
}

// FollowingFeed returns posts by every author the user follows, resolved
// with a single subquery join rather than one query per followed author.
func (r *PostgresPostRepository) FollowingFeed(userID uint, page pagination.Spec) ([]models.Post, pagination.Meta, error) {
	return r.feed(func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id IN (?)",
			r.db.Table("follows").Select("author_id").Where("user_id = ?", userID),
		)
	}, page)
}

// feed runs one filtered feed query: count for pagination clamping, then the
// page window ordered by created_at with id as tie-break, comment counts via
// an aggregate join, author and group eagerly loaded.
func (r *PostgresPostRepository) feed(filter func(*gorm.DB) *gorm.DB, page pagination.Spec) ([]models.Post, pagination.Meta, error) {
	var total int64
	if err := filter(r.db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	offset, limit, meta := page.Window(total)

	var posts []models.Post
	err := filter(r.db.Model(&models.Post{})).
		Select("posts.*, COUNT(comments.id) AS comment_count").
		Joins("LEFT JOIN comments ON comments.post_id = posts.id").
		Group("posts.id").
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, meta, nil
}
