// internal/metrics/metrics_test.go
package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_InitialSnapshot(t *testing.T) {
	snap := New().Snapshot()

	assert.False(t, snap.SimulatorRunning)
	assert.False(t, snap.AdapterInitialized)
	assert.Equal(t, StateIdle, snap.AdapterState)
	assert.Empty(t, snap.PdPublishers)
	assert.NotNil(t, snap.MdListeners)
}

func TestAggregator_CountersSortedByName(t *testing.T) {
	a := New()
	a.RegisterPdPublisher("zeta")
	a.RecordPdPublish("alpha")
	a.RecordPdPublish("alpha")
	a.RecordPdReceive("sub")
	a.RecordMdRequestSent("snd")
	a.RecordMdReplyReceived("snd")
	a.RecordMdRequestReceived("lis")
	a.RecordMdReplySent("lis")

	snap := a.Snapshot()

	require.Len(t, snap.PdPublishers, 2)
	assert.Equal(t, PdPublisherStats{Name: "alpha", PacketsSent: 2}, snap.PdPublishers[0])
	assert.Equal(t, PdPublisherStats{Name: "zeta"}, snap.PdPublishers[1])
	assert.Equal(t, []PdSubscriberStats{{Name: "sub", PacketsReceived: 1}}, snap.PdSubscribers)
	assert.Equal(t, []MdSenderStats{{Name: "snd", RequestsSent: 1, RepliesReceived: 1}}, snap.MdSenders)
	assert.Equal(t, []MdListenerStats{{Name: "lis", RequestsReceived: 1, RepliesSent: 1}}, snap.MdListeners)
}

func TestAggregator_SnapshotIsACopy(t *testing.T) {
	a := New()
	a.RecordPdPublish("p")
	snap := a.Snapshot()

	a.RecordPdPublish("p")

	assert.Equal(t, uint64(1), snap.PdPublishers[0].PacketsSent)
	assert.Equal(t, uint64(2), a.Snapshot().PdPublishers[0].PacketsSent)
}

func TestAggregator_ConcurrentIncrements(t *testing.T) {
	a := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				a.RecordPdPublish("p")
				_ = a.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8000), a.Snapshot().PdPublishers[0].PacketsSent)
}

func TestAggregator_LifecycleAndReset(t *testing.T) {
	a := New()
	a.SetSimulatorRunning(true)
	a.SetAdapterStatus(true, StateRunning)
	a.RecordMdRequestSent("s")

	snap := a.Snapshot()
	assert.True(t, snap.SimulatorRunning)
	assert.True(t, snap.AdapterInitialized)
	assert.Equal(t, StateRunning, a.AdapterState())

	a.SetAdapterStatus(false, StateErrorPrefix+"boom")
	assert.True(t, a.Snapshot().IsError())

	a.Reset()
	snap = a.Snapshot()
	assert.Equal(t, StateIdle, snap.AdapterState)
	assert.False(t, snap.IsError())
	assert.Empty(t, snap.MdSenders)
}
