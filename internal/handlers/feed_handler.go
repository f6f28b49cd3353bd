package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/idesu/yet-another-blog-engine/internal/cache"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FeedHandler serves the paginated feed pages: global, per group and the
// personalized following feed.
type FeedHandler struct {
	postRepository  repositories.PostRepository
	groupRepository repositories.GroupRepository
	fragments       cache.FragmentCache
}

// NewFeedHandler creates a new FeedHandler. fragments may be nil, in which
// case every request renders from the database.
func NewFeedHandler(postRepo repositories.PostRepository, groupRepo repositories.GroupRepository, fragments cache.FragmentCache) *FeedHandler {
	return &FeedHandler{
		postRepository:  postRepo,
		groupRepository: groupRepo,
		fragments:       fragments,
	}
}

// RegisterFeedRoutes registers the public feed routes and the auth-only
// following feed.
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, authRequired echo.MiddlewareFunc) {
	e.GET("/", h.GetIndex)
	e.GET("/follow/", h.GetFollowingFeed, authRequired)
	e.GET("/group/:slug/", h.GetGroupFeed)
}

// GetIndex returns the global feed. The serialized page is memoized in the
// fragment cache, so within the expiry window repeat reads of the same page
// are served byte for byte without touching the database.
func (h *FeedHandler) GetIndex(c echo.Context) error {
	spec := pageSpec(c)
	key := cache.IndexPageKey(spec.Number)

	if h.fragments != nil {
		if fragment, ok := h.fragments.Get(key); ok {
			return c.JSONBlob(http.StatusOK, fragment)
		}
	}

	posts, meta, err := h.postRepository.GlobalFeed(spec)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fragment, err := json.Marshal(echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    meta,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.fragments != nil {
		h.fragments.Set(key, fragment)
	}
	return c.JSONBlob(http.StatusOK, fragment)
}

// GetGroupFeed returns the feed of one group addressed by slug.
func (h *FeedHandler) GetGroupFeed(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, meta, err := h.postRepository.GroupFeed(group.ID, pageSpec(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"group": group, "posts": posts},
		"meta":    meta,
	})
}

// GetFollowingFeed returns posts by the authors the current user follows.
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	posts, meta, err := h.postRepository.FollowingFeed(currentUserID, pageSpec(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    meta,
	})
}
