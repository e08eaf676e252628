// Package tracing provides AWS X-Ray tracing for the long-running
// operations: forge passes and settlement sweeps.
package tracing

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg)
	case xraylog.LogLevelInfo:
		l.logger.Info(msg)
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg)
	default:
		l.logger.Error(msg)
	}
}

// Enabled reports whether tracing was requested via environment
func Enabled() bool {
	return os.Getenv("AWS_XRAY_ENABLED") == "true"
}

// Setup configures X-Ray from the environment. A no-op unless
// AWS_XRAY_ENABLED=true; the daemon address falls back to the SDK
// default (127.0.0.1:2000) when unset.
func Setup(logger *logrus.Logger) error {
	if !Enabled() {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr: os.Getenv("AWS_XRAY_DAEMON_ADDRESS"),
	}); err != nil {
		return err
	}

	logger.Info("AWS X-Ray tracing enabled")
	return nil
}

// Capture runs fn inside a segment when tracing is enabled, and calls
// it directly otherwise.
func Capture(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if !Enabled() {
		return fn(ctx)
	}

	segCtx, seg := xray.BeginSegment(ctx, name)
	err := fn(segCtx)
	seg.Close(err)
	return err
}

// AddAnnotation tags the current segment with an indexed key
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
