package irengine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparques/irengine/irproto"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigureReceiveOnly(t *testing.T) {
	e, err := Configure(Config{
		Log:     quietLogger(),
		Receive: &ReceiveConfig{},
	})
	require.NoError(t, err)
	require.NotNil(t, e.RX)
	assert.Nil(t, e.TX)
	assert.Len(t, e.RX.handlers, len(irproto.Protocols()))

	e.RX.Enable()
	e.Task()

	assert.ErrorIs(t, e.Send(irproto.Command{Protocol: irproto.ProtocolNEC32, Code: 1}, 1), ErrNoCarrier)
}

func TestConfigureTransmitRequiresCarrier(t *testing.T) {
	e, err := Configure(Config{
		Log:      quietLogger(),
		Receive:  &ReceiveConfig{},
		Transmit: &TransmitConfig{},
	})
	// fail-soft: the receive side still comes up
	assert.ErrorIs(t, err, ErrNoCarrier)
	assert.NotNil(t, e.RX)
	assert.Nil(t, e.TX)
}

func TestConfigureLinksSides(t *testing.T) {
	h := &txHarness{}
	e, err := Configure(Config{
		Log:      quietLogger(),
		Receive:  &ReceiveConfig{},
		Transmit: &TransmitConfig{Carrier: h, Alarm: h},
	})
	require.NoError(t, err)
	require.NotNil(t, e.RX)
	require.NotNil(t, e.TX)
	assert.Same(t, e.TX.busyFlag(), e.RX.txBusy)
}

func TestConfigureDefaults(t *testing.T) {
	h := &txHarness{}
	e, err := Configure(Config{
		Log:      quietLogger(),
		Transmit: &TransmitConfig{Carrier: h, Alarm: h},
	})
	require.NoError(t, err)
	assert.Nil(t, e.RX)
	assert.Len(t, e.TX.buttons, DefaultButtons)

	e2, err := Configure(Config{
		Log:     quietLogger(),
		Receive: &ReceiveConfig{PulseBuffer: 16, CommandBuffer: 2, IdleTimeout: 50_000},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(50_000), e2.RX.idleTimeout)
}

func TestEngineSendString(t *testing.T) {
	h := &txHarness{}
	e, err := Configure(Config{
		Log:      quietLogger(),
		Transmit: &TransmitConfig{Carrier: h, Alarm: h},
	})
	require.NoError(t, err)

	require.NoError(t, e.SendString("08.00.0543", 1))
	h.run(t)
	require.Len(t, h.freqs, 1)
	assert.Equal(t, uint32(40000), h.freqs[0])

	assert.Error(t, e.SendString("not-a-command", 1))
	assert.ErrorIs(t, e.SendString("63.00.1234", 1), irproto.ErrUnknownProtocol)
}

func TestEngineSubscribeRaw(t *testing.T) {
	e, err := Configure(Config{
		Log:     quietLogger(),
		Receive: &ReceiveConfig{},
	})
	require.NoError(t, err)

	var pulses []irproto.Pulse
	require.NoError(t, e.SubscribeRaw(func(p irproto.Pulse) { pulses = append(pulses, p) }))

	e.Enable()
	now := uint64(1_000_000)
	e.RX.clock = func() uint64 { return now }
	e.RX.OnEdge(true)
	now += 9000
	e.RX.OnEdge(false)
	e.Task()
	require.Len(t, pulses, 1)
	assert.True(t, pulses[0].Mark)
	assert.Equal(t, uint32(9000), pulses[0].Duration)

	txOnly := &Engine{}
	assert.ErrorIs(t, txOnly.SubscribeRaw(func(irproto.Pulse) {}), ErrNoReceiver)
	assert.ErrorIs(t, txOnly.Subscribe(func(irproto.Received) {}), ErrNoReceiver)
}
