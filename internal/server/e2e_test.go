package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
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
	"golang.org/x/crypto/bcrypt"
)

// cluster runs the user, post and comment services on loopback listeners.
type cluster struct {
	userURL    string
	postURL    string
	commentURL string
}

func loopback(t *testing.T) (net.Listener, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln, "http://" + ln.Addr().String()
}

func serve(t *testing.T, app *fiber.App, ln net.Listener) {
	t.Helper()
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
}

// startCluster wires the services to each other. When cascadeTo is empty the
// post service cascades into the real comment service.
func startCluster(t *testing.T, cascadeTo string) cluster {
	t.Helper()
	userLn, userURL := loopback(t)
	postLn, postURL := loopback(t)
	commentLn, commentURL := loopback(t)
	if cascadeTo == "" {
		cascadeTo = commentURL
	}
	timeout := 2 * time.Second

	users := service.NewUserService(repository.NewUserRepository(openDB(t, &models.User{})), bcrypt.MinCost)
	serve(t, NewServer(testConfig(config.ServiceUser), Deps{Users: users}).NewApp(), userLn)

	posts := service.NewPostService(
		repository.NewPostRepository(openDB(t, &models.Post{})),
		clients.NewUserClient(userURL, timeout),
		service.NewCascade(clients.NewCommentClient(cascadeTo, timeout)),
	)
	serve(t, NewServer(testConfig(config.ServicePost), Deps{Posts: posts}).NewApp(), postLn)

	comments := service.NewCommentService(
		repository.NewCommentRepository(openDB(t, &models.Comment{})),
		clients.NewUserClient(userURL, timeout),
		clients.NewPostClient(postURL, timeout),
	)
	serve(t, NewServer(testConfig(config.ServiceComment), Deps{Comments: comments}).NewApp(), commentLn)

	c := cluster{userURL: userURL, postURL: postURL, commentURL: commentURL}
	c.waitReady(t)
	return c
}

func (c cluster) waitReady(t *testing.T) {
	t.Helper()
	for _, base := range []string{c.userURL, c.postURL, c.commentURL} {
		require.Eventually(t, func() bool {
			resp, err := http.Get(base + "/health")
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		}, 5*time.Second, 20*time.Millisecond, base)
	}
}

func call(t *testing.T, method, url string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (c cluster) user(t *testing.T, name string) models.User {
	t.Helper()
	status, data := call(t, http.MethodPost, c.userURL+"/users", models.CreateUserRequest{
		Username: name, Email: name + "@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[models.User](t, data)
}

func (c cluster) post(t *testing.T, author models.User) models.Post {
	t.Helper()
	status, data := call(t, http.MethodPost, c.postURL+"/posts", models.CreatePostRequest{
		UserID: author.ID, Username: author.Username, Title: "Hello", Content: "World",
	})
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[models.Post](t, data)
}

func (c cluster) comment(t *testing.T, author models.User, post models.Post) models.Comment {
	t.Helper()
	status, data := call(t, http.MethodPost, c.commentURL+"/comments", models.CreateCommentRequest{
		UserID: author.ID, PostID: post.ID, Username: author.Username, Content: "hi from " + author.Username,
	})
	require.Equal(t, http.StatusCreated, status, string(data))
	return decode[models.Comment](t, data)
}

func (c cluster) postComments(t *testing.T, postID string) []models.Comment {
	t.Helper()
	status, data := call(t, http.MethodGet, c.commentURL+"/posts/"+postID+"/comments", nil)
	require.Equal(t, http.StatusOK, status)
	return decode[[]models.Comment](t, data)
}

func (c cluster) fetchUser(t *testing.T, id string) models.User {
	t.Helper()
	status, data := call(t, http.MethodGet, c.userURL+"/users/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	return decode[models.User](t, data)
}

func TestCluster_DeletePostCascadesToComments(t *testing.T) {
	c := startCluster(t, "")
	alice, bob := c.user(t, "alice"), c.user(t, "bob")
	post := c.post(t, alice)
	c.comment(t, alice, post)
	c.comment(t, bob, post)
	require.Len(t, c.postComments(t, post.ID), 2)
	assert.Equal(t, 1, c.fetchUser(t, bob.ID).Comments)

	status, data := call(t, http.MethodDelete, fmt.Sprintf("%s/posts/delete/%s/%s", c.postURL, alice.ID, post.ID), nil)
	require.Equal(t, http.StatusOK, status, string(data))

	assert.Empty(t, c.postComments(t, post.ID))
	status, _ = call(t, http.MethodGet, c.postURL+"/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	a := c.fetchUser(t, alice.ID)
	assert.Zero(t, a.Posts)
	assert.Zero(t, a.Comments)
	assert.Zero(t, c.fetchUser(t, bob.ID).Comments)
}

func TestCluster_DeletePostSucceedsWithoutCommentService(t *testing.T) {
	c := startCluster(t, closedURL(t))
	alice, bob := c.user(t, "alice"), c.user(t, "bob")
	post := c.post(t, alice)
	c.comment(t, alice, post)
	c.comment(t, bob, post)

	status, data := call(t, http.MethodDelete, fmt.Sprintf("%s/posts/delete/%s/%s", c.postURL, alice.ID, post.ID), nil)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.JSONEq(t, `{"detail":"Post deleted successfully"}`, string(data))

	// The orphans stay until someone removes them.
	assert.Len(t, c.postComments(t, post.ID), 2)
}

func TestCluster_ConcurrentLikesAreAllCounted(t *testing.T) {
	c := startCluster(t, "")
	alice := c.user(t, "alice")
	post := c.post(t, alice)

	const n = 25
	var wg sync.WaitGroup
	statuses := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPut, c.postURL+"/posts/"+post.ID+"/like", nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			_ = resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	for s := range statuses {
		assert.Equal(t, http.StatusOK, s)
	}

	status, data := call(t, http.MethodGet, c.postURL+"/posts/"+post.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, n, decode[models.Post](t, data).Likes)
}

func TestCluster_CommentOnDeletedPostIsRejected(t *testing.T) {
	c := startCluster(t, "")
	alice := c.user(t, "alice")
	post := c.post(t, alice)

	status, _ := call(t, http.MethodDelete, fmt.Sprintf("%s/posts/delete/%s/%s", c.postURL, alice.ID, post.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, data := call(t, http.MethodPost, c.commentURL+"/comments", models.CreateCommentRequest{
		UserID: alice.ID, PostID: post.ID, Username: alice.Username, Content: "late",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assertErrorCode(t, data, models.CodeNotFound)
}
