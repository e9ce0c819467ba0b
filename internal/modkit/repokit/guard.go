package repokit

import (
	"context"
	"time"

	perr "steakfeed/internal/platform/errors"
)

type guarder interface {
	Guard(context.Context) error
}

// Ready runs st.Guard under timeout when ctx has no deadline of its own.
// A failing dependency is reported as Unavailable
func Ready(ctx context.Context, st guarder, timeout time.Duration) error {
	if st == nil {
		return perr.New(perr.ErrorCodeUnavailable, "repokit: nil store")
	}
	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "dependency not ready")
	}
	return nil
}
