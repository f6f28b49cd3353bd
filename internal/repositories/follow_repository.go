package repositories

import (
	"errors"

	"github.com/idesu/yet-another-blog-engine/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// FollowRepository defines the interface for follow-graph operations
type FollowRepository interface {
	Follow(userID, authorID uint) error
	Unfollow(userID, authorID uint) error
	IsFollowing(userID, authorID uint) (bool, error)
	FollowersCount(authorID uint) (int64, error)
	FollowingCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow inserts the edge user -> author. The insert rides on the
// (user_id, author_id) unique index with DO NOTHING on conflict, so a
// duplicate follow is a successful no-op even under concurrent requests.
func (r *PostgresFollowRepository) Follow(userID, authorID uint) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(follow).Error
}

// Unfollow removes the edge if present; removing a missing edge is a no-op.
func (r *PostgresFollowRepository) Unfollow(userID, authorID uint) error {
	return r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

func (r *PostgresFollowRepository) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) FollowersCount(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
