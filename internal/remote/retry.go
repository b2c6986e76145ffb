package remote

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/cenkalti/backoff/v4"

	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// retryable reports whether a failed request may succeed when repeated.
func retryable(err error) bool {
	switch connect.CodeOf(err) {
	case connect.CodeUnavailable, connect.CodeResourceExhausted, connect.CodeDeadlineExceeded:
		return true
	}
	return false
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if c.cfg.Retry.InitialInterval > 0 {
		eb.InitialInterval = c.cfg.Retry.InitialInterval
	}
	if c.cfg.Retry.MaxInterval > 0 {
		eb.MaxInterval = c.cfg.Retry.MaxInterval
	}
	// The attempt count bounds retries, not elapsed time.
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, c.cfg.Retry.MaxRetries), ctx)
}

// call runs one unary RPC under the rate limiter, retrying transient failures.
func call[Req, Res any](
	ctx context.Context,
	c *Client,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	msg *Req,
) (res *Res, err error) {
	ctx, span := tracer.Start(ctx, procedure)
	defer func() { tracer.End(span, err) }()

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		resp, err := fn(ctx, connect.NewRequest(msg))
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		res = resp.Msg
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("remote request failed, retrying",
			"procedure", procedure,
			"attempt", attempt,
			"retry_in", wait,
			"error", err)
	}

	if err = backoff.RetryNotify(op, c.newBackOff(ctx), notify); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return nil, err
	}
	return res, nil
}
