package debugsrv

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func newTestLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return logrus.NewEntry(logger), hook
}

func TestLogTracerWatchesEverythingByDefault(t *testing.T) {
	entry, hook := newTestLogger()
	tr := NewLogTracer(entry)
	tr.OnRead(0x1234, 0xAB)
	tr.OnWrite(0xFF40, 0x80)
	assert.Len(t, hook.Entries, 2)
}

func TestLogTracerFiltersToWatchedAddresses(t *testing.T) {
	entry, hook := newTestLogger()
	tr := NewLogTracer(entry, 0xFF40)
	tr.OnRead(0x1234, 0xAB) // not watched
	tr.OnRead(0xFF40, 0x80) // watched
	assert.Len(t, hook.Entries, 1)
	assert.Equal(t, uint16(0xFF40), hook.Entries[0].Data["addr"])
}

func TestBroadcastWithNoClientsDoesNotPanic(t *testing.T) {
	entry, _ := newTestLogger()
	h := New(entry)
	assert.NotPanics(t, func() { h.Broadcast(Snapshot{PC: 0x100}) })
}

func TestBroadcastDeliversToConnectedClient(t *testing.T) {
	entry, _ := newTestLogger()
	h := New(entry)
	c := &client{send: make(chan []byte, 1)}
	h.clients[c] = true

	h.Broadcast(Snapshot{PC: 0x150, A: 0x01})

	select {
	case msg := <-c.send:
		assert.Contains(t, string(msg), "\"PC\":336")
	default:
		t.Fatal("expected a queued snapshot")
	}
}

func TestBroadcastDropsFrameWhenSendBufferFull(t *testing.T) {
	entry, hook := newTestLogger()
	h := New(entry)
	c := &client{send: make(chan []byte, 1)}
	c.send <- []byte("stale")
	h.clients[c] = true

	h.Broadcast(Snapshot{PC: 1})
	assert.True(t, len(hook.Entries) > 0, "a full client buffer should log a warning")
}
