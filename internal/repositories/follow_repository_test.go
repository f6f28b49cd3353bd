package repositories

import (
	"errors"
	"testing"

	"github.com/idesu/yet-another-blog-engine/internal/models"
)

func TestFollowUnfollowRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")

	if err := repo.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	following, err := repo.IsFollowing(alice.ID, bob.ID)
	if err != nil || !following {
		t.Fatalf("IsFollowing after follow = %v, %v", following, err)
	}

	if err := repo.Unfollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	following, err = repo.IsFollowing(alice.ID, bob.ID)
	if err != nil || following {
		t.Fatalf("IsFollowing after unfollow = %v, %v", following, err)
	}
}

func TestSelfFollowCreatesNoEdge(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := mustUser(t, db, "alice")

	if err := repo.Follow(alice.ID, alice.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self-follow error = %v", err)
	}

	var count int64
	if err := db.Model(&models.Follow{}).Count(&count).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if count != 0 {
		t.Fatalf("self-follow created %d edges", count)
	}
}

func TestDuplicateFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")

	// The unique index plus DO NOTHING makes the second insert a no-op
	// rather than an error, which is also what closes the concurrent
	// duplicate-follow race.
	if err := repo.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if err := repo.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("duplicate follow: %v", err)
	}

	var count int64
	if err := db.Model(&models.Follow{}).Count(&count).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d edges, want 1", count)
	}
}

func TestUnfollowMissingEdgeIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")

	if err := repo.Unfollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Unfollow on missing edge: %v", err)
	}
}

func TestFollowerAndFollowingCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	charlie := mustUser(t, db, "charlie")

	if err := repo.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := repo.Follow(charlie.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := repo.Follow(bob.ID, alice.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	followers, err := repo.FollowersCount(bob.ID)
	if err != nil || followers != 2 {
		t.Fatalf("FollowersCount(bob) = %d, %v", followers, err)
	}
	following, err := repo.FollowingCount(bob.ID)
	if err != nil || following != 1 {
		t.Fatalf("FollowingCount(bob) = %d, %v", following, err)
	}
}
