package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"agora/internal/models"
	"agora/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// LookupStatus tags the outcome of an existence check against another service.
type LookupStatus int

const (
	// LookupFound means the entity exists and its projection was decoded.
	LookupFound LookupStatus = iota + 1
	// LookupNotFound means the owning service answered 404.
	LookupNotFound
	// LookupUnavailable means the owning service could not give an answer.
	LookupUnavailable
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// UserLookup is the result of UserClient.Lookup. User is set only when
// Status is LookupFound and Err only when it is LookupUnavailable.
type UserLookup struct {
	Status LookupStatus
	User   *models.User
	Err    error
}

// VerifyStatus tags the outcome of a credential check.
type VerifyStatus int

const (
	VerifyAccepted VerifyStatus = iota + 1
	VerifyRejected
	VerifyUnavailable
)

// Verification is the result of UserClient.Verify.
type Verification struct {
	Status VerifyStatus
	User   *models.VerifiedUser
	Err    error
}

// UserClient calls the user service.
type UserClient struct {
	caller
}

// NewUserClient returns a client for the user service rooted at base.
func NewUserClient(base string, timeout time.Duration) *UserClient {
	return &UserClient{caller: newCaller("user-service", base, timeout)}
}

// Lookup checks whether userID exists. It never reports NotFound for a
// failure to reach the service.
func (c *UserClient) Lookup(ctx context.Context, userID string) UserLookup {
	status, body, err := c.do(ctx, "lookup", fiber.Get(c.url("users", userID)))
	res := c.lookupResult(status, body, err)
	observability.OwnershipChecks.WithLabelValues(res.Status.String()).Inc()
	return res
}

func (c *UserClient) lookupResult(status int, body []byte, err error) UserLookup {
	if err != nil {
		return UserLookup{Status: LookupUnavailable, Err: err}
	}
	switch status {
	case fiber.StatusOK:
		var user models.User
		if err := json.Unmarshal(body, &user); err != nil {
			return UserLookup{Status: LookupUnavailable, Err: fmt.Errorf("decode user: %w", err)}
		}
		return UserLookup{Status: LookupFound, User: &user}
	case fiber.StatusNotFound:
		return UserLookup{Status: LookupNotFound}
	default:
		return UserLookup{Status: LookupUnavailable, Err: unexpected(status)}
	}
}

// Verify forwards raw credentials unchanged to POST /auth/verify.
func (c *UserClient) Verify(ctx context.Context, credentials []byte) Verification {
	agent := fiber.Post(c.url("auth", "verify")).
		Body(credentials).
		ContentType(fiber.MIMEApplicationJSON)
	status, body, err := c.do(ctx, "verify", agent)
	if err != nil {
		return Verification{Status: VerifyUnavailable, Err: err}
	}

	switch {
	case status == fiber.StatusOK:
		var user models.VerifiedUser
		if err := json.Unmarshal(body, &user); err != nil {
			return Verification{Status: VerifyUnavailable, Err: fmt.Errorf("decode verification: %w", err)}
		}
		if user.UserID == "" {
			return Verification{Status: VerifyUnavailable, Err: errors.New("verification response has no user_id")}
		}
		return Verification{Status: VerifyAccepted, User: &user}
	case status >= fiber.StatusInternalServerError:
		return Verification{Status: VerifyUnavailable, Err: unexpected(status)}
	default:
		// 400, 401, 404 and 422 all mean the credentials were not accepted.
		return Verification{Status: VerifyRejected}
	}
}

// AdjustCounter moves one of the user's activity counters by delta.
func (c *UserClient) AdjustCounter(ctx context.Context, userID string, counter models.UserCounter, delta int) error {
	agent := fiber.Put(c.url("users", userID, "counters", string(counter))).
		JSON(models.CounterRequest{Delta: delta})
	status, _, err := c.do(ctx, "adjust_counter", agent)
	if err != nil {
		return err
	}
	if status != fiber.StatusOK {
		return fmt.Errorf("adjust %s for user %s: %w", counter, userID, unexpected(status))
	}
	return nil
}

func (s VerifyStatus) String() string {
	switch s {
	case VerifyAccepted:
		return "accepted"
	case VerifyRejected:
		return "rejected"
	case VerifyUnavailable:
		return "unavailable"
	}
	return strconv.Itoa(int(s))
}
