package boundary

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/illarion/cryptify/internal/logging"
)

type loggerBox struct {
	logging.Logger
}

var current atomic.Pointer[loggerBox]

func init() {
	current.Store(&loggerBox{Logger: logging.Discard()})
}

// SetLogger replaces the logger used for internal failures. A nil logger
// restores the default, which discards everything.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	current.Store(&loggerBox{Logger: l})
}

func logger() logging.Logger {
	return current.Load().Logger
}

// guard runs fn and converts its outcome into a Status. A panic inside fn is
// recovered and reported as fallback. Only the operation name, the status and
// the panic's type are logged.
func guard(op string, fallback Status, fn func() error) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			status = fallback
			logger().Error(context.Background(), "recovered panic",
				"op", op, "status", int32(status), "panic", fmt.Sprintf("%T", r))
		}
	}()

	err := fn()
	status = statusOf(err, fallback)
	switch {
	case status == StatusOK:
	case status == fallback && status != StatusDecryptionFailed:
		logger().Warn(context.Background(), "operation failed",
			"op", op, "status", int32(status), "error", err)
	default:
		logger().Debug(context.Background(), "input rejected",
			"op", op, "status", int32(status))
	}
	return status
}
