package server

import (
	"testing"
	"time"

	"agora/internal/clients"
	"agora/internal/config"
	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostApp serves posts against userBase. The cascade is off unless a
// comment service base is given.
func newPostApp(t *testing.T, userBase, commentBase string) *fiber.App {
	t.Helper()
	repo := repository.NewPostRepository(openDB(t, &models.Post{}))
	var cascade *service.Cascade
	if commentBase != "" {
		cascade = service.NewCascade(clients.NewCommentClient(commentBase, time.Second))
	}
	posts := service.NewPostService(repo, clients.NewUserClient(userBase, time.Second), cascade)
	return NewServer(testConfig(config.ServicePost), Deps{Posts: posts}).NewApp()
}

func newPostRequest(userID string) models.CreatePostRequest {
	return models.CreatePostRequest{
		UserID:   userID,
		Username: "user_" + userID,
		Title:    "Hello",
		Category: models.CategoryTravel,
		Content:  "First trip report",
	}
}

func createPost(t *testing.T, app *fiber.App, userID string) models.Post {
	t.Helper()
	resp, data := doRequest(t, app, fiber.MethodPost, "/posts", newPostRequest(userID))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	return decode[models.Post](t, data)
}

func TestPostHandlers_Create(t *testing.T) {
	users := newDirectory(t, "u1")
	app := newPostApp(t, users.URL(), "")

	post := createPost(t, app, "u1")
	assert.NotEmpty(t, post.ID)
	assert.Zero(t, post.Likes)
	assert.Zero(t, post.Dislikes)
	assert.Equal(t, []string{"u1:posts:+1"}, users.counterCalls())

	resp, data := doRequest(t, app, fiber.MethodPost, "/posts", newPostRequest("ghost"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assertErrorCode(t, data, models.CodeNotFound)

	bad := newPostRequest("u1")
	bad.Title = ""
	resp, data = doRequest(t, app, fiber.MethodPost, "/posts", bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assertErrorCode(t, data, models.CodeValidation)
}

func TestPostHandlers_CreateWithUserServiceDown(t *testing.T) {
	app := newPostApp(t, closedURL(t), "")

	resp, data := doRequest(t, app, fiber.MethodPost, "/posts", newPostRequest("u1"))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assertErrorCode(t, data, models.CodeDependencyUnavailable)
}

func TestPostHandlers_LikeRoutesBeforeEdit(t *testing.T) {
	users := newDirectory(t, "u1")
	app := newPostApp(t, users.URL(), "")
	post := createPost(t, app, "u1")

	resp, data := doRequest(t, app, fiber.MethodPut, "/posts/"+post.ID+"/like", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, 1, decode[models.Post](t, data).Likes)

	resp, data = doRequest(t, app, fiber.MethodPut, "/posts/"+post.ID+"/dislike", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	liked := decode[models.Post](t, data)
	assert.Equal(t, 1, liked.Dislikes)
	assert.Equal(t, post.Title, liked.Title)

	resp, data = doRequest(t, app, fiber.MethodGet, "/posts/"+post.ID+"/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	summary := decode[models.PostSummary](t, data)
	assert.Equal(t, post.ID, summary.PostID)
	assert.Equal(t, "user_u1", summary.Username)

	resp, _ = doRequest(t, app, fiber.MethodPut, "/posts/missing/like", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPostHandlers_EditOwnership(t *testing.T) {
	users := newDirectory(t, "u1", "u2")
	app := newPostApp(t, users.URL(), "")
	post := createPost(t, app, "u1")

	title := "Edited"
	resp, data := doRequest(t, app, fiber.MethodPut, "/posts/u2/"+post.ID, models.EditPostRequest{Title: &title})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assertErrorCode(t, data, models.CodeForbidden)

	resp, data = doRequest(t, app, fiber.MethodPut, "/posts/u1/"+post.ID, models.EditPostRequest{Title: &title})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	edited := decode[models.Post](t, data)
	assert.Equal(t, "Edited", edited.Title)
	assert.Equal(t, post.Content, edited.Content)
	assert.False(t, edited.EditedAt.Before(post.EditedAt))
}

func TestPostHandlers_ListUserPosts(t *testing.T) {
	users := newDirectory(t, "u1", "u2")
	app := newPostApp(t, users.URL(), "")
	createPost(t, app, "u1")
	createPost(t, app, "u1")

	resp, data := doRequest(t, app, fiber.MethodGet, "/users/u1/posts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Post](t, data), 2)

	resp, data = doRequest(t, app, fiber.MethodGet, "/users/u2/posts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, _ = doRequest(t, app, fiber.MethodGet, "/users/ghost/posts", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPostHandlers_Delete(t *testing.T) {
	users := newDirectory(t, "u1", "u2")
	app := newPostApp(t, users.URL(), "")
	post := createPost(t, app, "u1")

	resp, _ := doRequest(t, app, fiber.MethodDelete, "/posts/delete/u2/"+post.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, data := doRequest(t, app, fiber.MethodDelete, "/posts/delete/u1/"+post.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Post deleted successfully"}`, string(data))
	assert.Equal(t, []string{"u1:posts:+1", "u1:posts:-1"}, users.counterCalls())

	resp, _ = doRequest(t, app, fiber.MethodGet, "/posts/"+post.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
