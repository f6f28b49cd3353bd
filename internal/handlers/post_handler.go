package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/idesu/yet-another-blog-engine/internal/cache"
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// errNotImage marks an upload whose content is not an image.
var errNotImage = errors.New("uploaded file is not an image")

// PostHandler handles post creation, viewing, editing and deletion.
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	followRepository  repositories.FollowRepository
	fragments         cache.FragmentCache
	mediaRoot         string
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	followRepo repositories.FollowRepository,
	fragments cache.FragmentCache,
	mediaRoot string,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		followRepository:  followRepo,
		fragments:         fragments,
		mediaRoot:         mediaRoot,
	}
}

// RegisterPostRoutes registers post routes. The username-prefixed routes are
// public reads; mutations require authentication.
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo, authRequired echo.MiddlewareFunc) {
	e.GET("/new/", h.GetNewPostForm, authRequired)
	e.POST("/new/", h.CreatePost, authRequired)
	e.GET("/:username/:post_id/", h.GetPost)
	e.POST("/:username/:post_id/delete/", h.DeletePost, authRequired)
	e.GET("/:username/:post_id/edit/", h.GetEditPostForm, authRequired)
	e.POST("/:username/:post_id/edit/", h.UpdatePost, authRequired)
}

// GetNewPostForm returns the data backing the new-post form: the groups a
// post can be filed under.
func (h *PostHandler) GetNewPostForm(c echo.Context) error {
	groups, err := h.groupRepository.ListGroups()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"groups": groups},
	})
}

// CreatePost creates a post for the current user, stores an optional image
// upload, clears the feed cache and redirects to the global feed.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	if req.GroupID != nil {
		if _, err := h.groupRepository.GetGroupByID(*req.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationFailed(c, errors.New("unknown group"))
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	imagePath, err := h.saveImage(c)
	if err != nil {
		if errors.Is(err, errNotImage) {
			return validationFailed(c, err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post := &models.Post{
		Text:      req.Text,
		AuthorID:  currentUserID,
		GroupID:   req.GroupID,
		ImagePath: imagePath,
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.fragments != nil {
		h.fragments.Clear()
	}
	return c.Redirect(http.StatusFound, "/")
}

// GetPost shows a single post with its comments and the author's stats.
func (h *PostHandler) GetPost(c echo.Context) error {
	author, post, err := h.resolvePost(c)
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	postsCount, err := h.postRepository.CountByAuthor(author.ID)
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

	post.CommentCount = len(comments)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post":            post,
			"comments":        comments,
			"author":          author.ToCompact(),
			"posts_count":     postsCount,
			"followers_count": followers,
			"following_count": following,
		},
	})
}

// GetEditPostForm returns the post for its author to edit. Anyone else is
// redirected back to the post.
func (h *PostHandler) GetEditPostForm(c echo.Context) error {
	_, post, err := h.resolvePost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != getUserIDFromContext(c) {
		return c.Redirect(http.StatusFound, postPath(c))
	}

	groups, err := h.groupRepository.ListGroups()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post": post, "groups": groups},
	})
}

// UpdatePost applies an author's edit, clears the feed cache and redirects
// back to the post. Non-authors are redirected, not errored.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	_, post, err := h.resolvePost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != getUserIDFromContext(c) {
		return c.Redirect(http.StatusFound, postPath(c))
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	imagePath, err := h.saveImage(c)
	if err != nil {
		if errors.Is(err, errNotImage) {
			return validationFailed(c, err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post.Text = req.Text
	post.GroupID = req.GroupID
	if imagePath != "" {
		post.ImagePath = imagePath
	}
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.fragments != nil {
		h.fragments.Clear()
	}
	return c.Redirect(http.StatusFound, postPath(c))
}

// DeletePost removes a post. Only the author may delete; anyone else is
// redirected to the profile. Deletion clears the whole fragment cache.
func (h *PostHandler) DeletePost(c echo.Context) error {
	username := c.Param("username")
	if getUsernameFromContext(c) != username {
		return c.Redirect(http.StatusFound, "/"+username+"/")
	}

	_, post, err := h.resolvePost(c)
	if err != nil {
		return err
	}
	if err := h.postRepository.DeletePost(post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.fragments != nil {
		h.fragments.Clear()
	}
	return c.Redirect(http.StatusFound, "/"+username+"/")
}

// resolvePost loads the path's author and post, enforcing that the post
// belongs to the named author. Unknown username, unparsable id, or a
// mismatched pair are all 404s.
func (h *PostHandler) resolvePost(c echo.Context) (*models.User, *models.Post, error) {
	author, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorID != author.ID {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return author, post, nil
}

// saveImage stores an uploaded image under MEDIA_ROOT/posts and returns its
// relative path. A missing image field is fine; a non-image upload is
// errNotImage and nothing is stored.
func (h *PostHandler) saveImage(c echo.Context) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil // no upload
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 3072)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	mtype := mimetype.Detect(head[:n])
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	dir := filepath.Join(h.mediaRoot, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + mtype.Extension()
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "posts/" + name, nil
}

// postPath rebuilds the canonical URL of the post addressed by the request.
func postPath(c echo.Context) string {
	return "/" + c.Param("username") + "/" + c.Param("post_id") + "/"
}

// validationFailed answers a malformed form submission: nothing was
// persisted and the client gets the failure reason back.
func validationFailed(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	message := err.Error()
	if errors.As(err, &httpErr) {
		if s, ok := httpErr.Message.(string); ok {
			message = s
		}
	}
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"errors":  echo.Map{"form": message},
	})
}
