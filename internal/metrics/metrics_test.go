package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"triggerOracle/internal/model"
)

func TestObserveInvocation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveInvocation("autonomous-artist", nil, 10*time.Millisecond)
	m.ObserveInvocation("autonomous-artist", nil, 20*time.Millisecond)
	m.ObserveInvocation("autonomous-artist", model.NewComputationError("status 500"), time.Second)
	m.ObserveInvocation("prediction-market-oracle", errors.New("boom"), time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.invocations.WithLabelValues("autonomous-artist", model.KindOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("autonomous-artist", model.KindComputationFailed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("prediction-market-oracle", model.KindInternal)))
	require.Equal(t, 2, testutil.CollectAndCount(m.duration))

	m.SetLastProcessedBlock(123)
	require.Equal(t, 123.0, testutil.ToFloat64(m.lastBlock))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveInvocation("x", nil, time.Second)
	m.SetLastProcessedBlock(1)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	require.Error(t, err)
}
