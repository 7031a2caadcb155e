// Package requestid carries the per-request id used to correlate access
// logs with error responses.
package requestid

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"strconv"

	"github.com/oklog/ulid/v2"
)

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// New returns a fresh id: the millisecond timestamp followed by 16 bits of
// entropy drawn per call, so ids sort by arrival and rarely collide within
// a millisecond. The monotonic reader behind ulid.Make only bumps the low
// bytes, which are cut off here.
func New() uint64 {
	id := ulid.MustNew(ulid.Now(), rand.Reader)
	return binary.BigEndian.Uint64(id[:8])
}

func InjectRequestID(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ExtractRequestID returns the id stored in ctx, or 0.
func ExtractRequestID(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}

// String is ExtractRequestID in the decimal form sent to clients.
func String(ctx context.Context) string {
	return strconv.FormatUint(ExtractRequestID(ctx), 10)
}
