package snapshot

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// rateLimitedWriter wraps an io.Writer with a bytes-per-second token
// bucket. Large writes are split so a single call never exceeds the
// limiter's burst.
type rateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	l   *rate.Limiter
}

func (lw *rateLimitedWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		chunk := len(p)
		if chunk > lw.l.Burst() {
			chunk = lw.l.Burst()
		}
		if err := lw.l.WaitN(lw.ctx, chunk); err != nil {
			return written, err
		}
		n, err := lw.w.Write(p[:chunk])
		written += n
		if err != nil {
			return written, err
		}
		p = p[chunk:]
	}
	return written, nil
}

// rateLimitedReader wraps an io.Reader, charging the token bucket for the
// requested buffer size before each read.
type rateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	l   *rate.Limiter
}

func (lr *rateLimitedReader) Read(p []byte) (int, error) {
	want := len(p)
	if want > lr.l.Burst() {
		want = lr.l.Burst()
	}
	if err := lr.l.WaitN(lr.ctx, want); err != nil {
		return 0, err
	}
	return lr.r.Read(p[:want])
}
