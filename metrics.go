package mtpx

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tgwire/mtpx/contrib/buildversion"
)

var (
	buildVersion string = buildversion.GetVersion("github.com/tgwire/mtpx")
	meter               = otel.Meter("github.com/tgwire/mtpx",
		metric.WithInstrumentationVersion(buildVersion))
)

var (
	// requestsSent tracks requests handed to the instance for dispatch.
	requestsSent, _ = meter.Int64Counter("mtpx.requests_sent")

	// requestsDone tracks requests resolved through their done callback.
	requestsDone, _ = meter.Int64Counter("mtpx.requests_done")

	// requestsFailed tracks requests resolved through their fail callback,
	// including synthesized response parse failures.
	requestsFailed, _ = meter.Int64Counter("mtpx.requests_failed")

	// requestsCancelled tracks instance-level cancels issued by Cancel,
	// CancelAll and Close.
	requestsCancelled, _ = meter.Int64Counter("mtpx.requests_cancelled")
)
