package mtpx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestSenderMetricCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	inst := &fakeInstance{}
	sender := NewSender(inst, nil)

	doneID := sender.Request(SerializedRequest(uuid.NewString())).Send()
	failID := sender.Request(SerializedRequest(uuid.NewString())).
		SetFailSkipPolicy(FailSkipExplicit).
		Send()

	inst.sentAt(t, 0).handlers.Done(doneID, []byte{0x01})
	inst.sentAt(t, 1).handlers.Fail(failID, NewError(400, "PEER_ID_INVALID", ""))

	cancelID := sender.Request(SerializedRequest(uuid.NewString())).Send()
	sender.Cancel(cancelID)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counters := make(map[string]int64)
	for _, scopeMetrics := range rm.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			counters[m.Name] = total
		}
	}

	assert.Equal(t, int64(3), counters["mtpx.requests_sent"])
	assert.Equal(t, int64(1), counters["mtpx.requests_done"])
	assert.Equal(t, int64(1), counters["mtpx.requests_failed"])
	assert.Equal(t, int64(1), counters["mtpx.requests_cancelled"])
}
