// internal/worker/sender_test.go
package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/adapter/adaptermock"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/payload"
)

func senderConfig(cycleMs uint32) config.MdSenderConfig {
	return config.MdSenderConfig{
		Name:        "Snd",
		ComID:       7,
		CycleTimeMs: cycleMs,
		Payload:     config.PayloadConfig{Format: config.PayloadText, Value: "ping"},
	}
}

func TestNewSender_BadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := adaptermock.NewMockAdapter(ctrl)

	cfg := senderConfig(0)
	cfg.Payload = config.PayloadConfig{Format: config.PayloadFile, Value: "/nonexistent/payload.bin"}

	_, err := NewSender(cfg, a, metrics.New(), logging.NewForTest())
	assert.ErrorIs(t, err, payload.ErrResolution)
}

func TestSender_OneShotAndReplyCounting(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := adaptermock.NewMockAdapter(ctrl)
	m := metrics.New()

	var onReply adapter.MdHandler
	a.EXPECT().RegisterMdSender(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ config.MdSenderConfig, h adapter.MdHandler) error {
			onReply = h
			return nil
		})
	a.EXPECT().SendMdRequest("Snd", []byte("ping")).DoAndReturn(func(string, []byte) error {
		onReply(adapter.MdMessage{Endpoint: "emulator", ComID: 7})
		return nil
	}).Times(1)

	s, err := NewSender(senderConfig(0), a, m, logging.NewForTest())
	require.NoError(t, err)
	require.NotNil(t, onReply)

	s.Start()
	s.Stop()

	snap := m.Snapshot()
	require.Len(t, snap.MdSenders, 1)
	assert.Equal(t, uint64(1), snap.MdSenders[0].RequestsSent)
	assert.Equal(t, uint64(1), snap.MdSenders[0].RepliesReceived)
}

func TestSender_Periodic(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := adaptermock.NewMockAdapter(ctrl)
	m := metrics.New()

	var sends atomic.Int32
	a.EXPECT().RegisterMdSender(gomock.Any(), gomock.Any()).Return(nil)
	a.EXPECT().SendMdRequest("Snd", gomock.Any()).DoAndReturn(func(string, []byte) error {
		sends.Add(1)
		return nil
	}).AnyTimes()

	s, err := NewSender(senderConfig(5), a, m, logging.NewForTest())
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return sends.Load() >= 2 }, 2*time.Second, time.Millisecond)
	s.Stop()

	assert.Equal(t, uint64(sends.Load()), m.Snapshot().MdSenders[0].RequestsSent)
}

func TestSender_PeriodicContinuesAfterSendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := adaptermock.NewMockAdapter(ctrl)
	m := metrics.New()

	var sends atomic.Int32
	a.EXPECT().RegisterMdSender(gomock.Any(), gomock.Any()).Return(nil)
	gomock.InOrder(
		a.EXPECT().SendMdRequest("Snd", gomock.Any()).Return(errors.New("no route")),
		a.EXPECT().SendMdRequest("Snd", gomock.Any()).DoAndReturn(func(string, []byte) error {
			sends.Add(1)
			return nil
		}).AnyTimes(),
	)

	s, err := NewSender(senderConfig(5), a, m, logging.NewForTest())
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return sends.Load() >= 2 }, 2*time.Second, time.Millisecond)
	s.Stop()

	assert.Equal(t, uint64(sends.Load()), m.Snapshot().MdSenders[0].RequestsSent)
}

func TestSender_UpdatePayloadFailureKeepsPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := adaptermock.NewMockAdapter(ctrl)

	a.EXPECT().RegisterMdSender(gomock.Any(), gomock.Any()).Return(nil)
	a.EXPECT().SendMdRequest("Snd", []byte("ping")).Return(nil)

	s, err := NewSender(senderConfig(0), a, metrics.New(), logging.NewForTest())
	require.NoError(t, err)

	assert.Error(t, s.UpdatePayload(config.PayloadHex, "ABC"))
	assert.Equal(t, "ping", s.PayloadConfig().Value)
	s.requestOnce()
}
