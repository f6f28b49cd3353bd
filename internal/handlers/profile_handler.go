package handlers

import (
	"errors"
	"net/http"

	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileHandler serves author pages and follow/unfollow edge mutations.
type ProfileHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *ProfileHandler {
	return &ProfileHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterProfileRoutes registers the profile feed and follow mutations.
// These are catch-all username routes, so they must be registered after
// every static route.
func (h *ProfileHandler) RegisterProfileRoutes(e *echo.Echo, authRequired echo.MiddlewareFunc) {
	e.GET("/:username/", h.GetProfile)
	e.GET("/:username/follow/", h.FollowAuthor, authRequired)
	e.GET("/:username/unfollow/", h.UnfollowAuthor, authRequired)
}

// GetProfile returns one author's paginated feed plus follower/following
// counts and whether the requesting user already follows them. The flag is
// always false for anonymous requests.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	author, err := h.resolveAuthor(c)
	if err != nil {
		return err
	}

	posts, meta, err := h.postRepository.AuthorFeed(author.ID, pageSpec(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, err := h.followRepository.FollowersCount(author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.FollowingCount(author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing := false
	if currentUserID := getUserIDFromContext(c); currentUserID > 0 {
		isFollowing, err = h.followRepository.IsFollowing(currentUserID, author.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"profile":         author.ToCompact(),
			"posts":           posts,
			"followers_count": followers,
			"following_count": following,
			"following":       isFollowing,
		},
		"meta": meta,
	})
}

// FollowAuthor adds the follow edge and redirects to the profile. Following
// yourself or someone you already follow changes nothing.
func (h *ProfileHandler) FollowAuthor(c echo.Context) error {
	author, err := h.resolveAuthor(c)
	if err != nil {
		return err
	}

	if err := h.followRepository.Follow(getUserIDFromContext(c), author.ID); err != nil &&
		!errors.Is(err, repositories.ErrSelfFollow) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// UnfollowAuthor removes the follow edge and redirects to the profile.
func (h *ProfileHandler) UnfollowAuthor(c echo.Context) error {
	author, err := h.resolveAuthor(c)
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(getUserIDFromContext(c), author.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

func (h *ProfileHandler) resolveAuthor(c echo.Context) (*models.User, error) {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
