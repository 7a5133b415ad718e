// Package safe runs cleanup and response writes whose errors cannot be
// returned to a caller, logging failures instead.
package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

// Close closes closer and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("close failed",
			"type", fmt.Sprintf("%T", closer),
			"error", err)
	}
}

// Write writes a response body and logs a failed or short write. The status
// line is already sent at this point, so the client only sees a truncated body.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Warn("response write failed",
			"written", n,
			"size", len(data),
			"error", err)
	}
}
