// Package clients holds the synchronous HTTP calls services make to each
// other. Every call has a fixed timeout, no retries, and is not cancelled
// when the inbound request goes away.
package clients

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"agora/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrUnexpectedStatus reports a response status the caller has no mapping for.
var ErrUnexpectedStatus = errors.New("unexpected status")

// caller issues requests against one downstream service.
type caller struct {
	name    string
	base    string
	timeout time.Duration
}

func newCaller(name, base string, timeout time.Duration) caller {
	return caller{name: name, base: strings.TrimRight(base, "/"), timeout: timeout}
}

func (c caller) url(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// do sends the request built by agent. A transport failure or timeout is
// returned as err; any HTTP response, including 5xx, is returned as status.
func (c caller) do(ctx context.Context, operation string, agent *fiber.Agent) (status int, body []byte, err error) {
	ctx, span := observability.StartClientSpan(ctx, c.name, operation)
	defer span.End()

	agent.Timeout(c.timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	observability.InjectHeaders(ctx, func(k, v string) { agent.Set(k, v) })

	req := agent.Request()
	method, target := string(req.Header.Method()), req.URI().String()

	start := time.Now()
	code, body, errs := agent.Bytes()
	observability.ObserveDownstream(c.name, start)

	if len(errs) > 0 {
		err = fmt.Errorf("%s %s: %w", method, target, errors.Join(errs...))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.LogServiceCall(ctx, c.name, method, target, 0, err)
		return 0, nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", code))
	observability.LogServiceCall(ctx, c.name, method, target, code, nil)
	return code, body, nil
}

func unexpected(status int) error {
	return fmt.Errorf("%w %d", ErrUnexpectedStatus, status)
}
