package events

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server on a random port.
func startTestNATS(t *testing.T) *natsserver.Server {
	t.Helper()
	return startTestNATSOnPort(t, -1)
}

func startTestNATSOnPort(t *testing.T, port int) *natsserver.Server {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: port}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// connectedChannel returns a connected Channel plus a publisher on the same server.
func connectedChannel(t *testing.T, srv *natsserver.Server) (*Channel, *NATSPublisher) {
	t.Helper()
	ch := NewChannel(srv.ClientURL(), testLogger(), WithReconnectWait(50*time.Millisecond))
	if err := ch.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(ch.Disconnect)

	pub, err := NewNATSPublisher(srv.ClientURL())
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	t.Cleanup(func() { pub.Close() })
	return ch, pub
}

func publish(t *testing.T, pub *NATSPublisher, topic, payload string) {
	t.Helper()
	if err := pub.conn.Publish(topic, []byte(payload)); err != nil {
		t.Fatalf("publishing to %s: %v", topic, err)
	}
	if err := pub.conn.Flush(); err != nil {
		t.Fatalf("flushing: %v", err)
	}
}

func recvEvent(t *testing.T, ch *Channel) CatalogEvent {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		if !ok {
			t.Fatal("event stream closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return CatalogEvent{}
}

func TestChannel_DeliversTypedEvents(t *testing.T) {
	srv := startTestNATS(t)
	ch, pub := connectedChannel(t, srv)

	publish(t, pub, TopicProductCreated, `{"id":1,"name":"Mug","price":9.90,"active":true}`)
	publish(t, pub, TopicProductUpdated, `{"id":1,"name":"Mug","price":12.50,"active":true}`)
	publish(t, pub, TopicProductDeleted, `1`)

	// Per-topic order is guaranteed; cross-topic order is not. Collect all
	// three and check by type.
	got := map[EventType]CatalogEvent{}
	for range 3 {
		ev := recvEvent(t, ch)
		got[ev.Type] = ev
	}

	created, ok := got[EventCreated]
	if !ok || created.Product == nil || created.Product.ID != 1 {
		t.Errorf("created event = %+v, want product with id 1", created)
	}
	updated, ok := got[EventUpdated]
	if !ok || updated.Product == nil || updated.Product.Price != 12.50 {
		t.Errorf("updated event = %+v, want price 12.50", updated)
	}
	deleted, ok := got[EventDeleted]
	if !ok || deleted.ProductID != 1 || deleted.Product != nil {
		t.Errorf("deleted event = %+v, want bare id 1", deleted)
	}
}

func TestChannel_DropsMalformedPayloads(t *testing.T) {
	srv := startTestNATS(t)
	ch, pub := connectedChannel(t, srv)

	publish(t, pub, TopicProductCreated, `not json at all`)
	publish(t, pub, TopicProductCreated, `{"name":"no id"}`)
	publish(t, pub, TopicProductDeleted, `"forty-two"`)
	publish(t, pub, TopicProductCreated, `{"id":7,"name":"Kettle","price":35,"active":true}`)

	ev := recvEvent(t, ch)
	if ev.Type != EventCreated || ev.ProductID != 7 {
		t.Fatalf("got %+v, want created event for id 7", ev)
	}

	// Nothing else should arrive; the malformed payloads were dropped.
	select {
	case extra := <-ch.Events():
		t.Fatalf("unexpected extra event %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestChannel_ConnectIdempotent(t *testing.T) {
	srv := startTestNATS(t)
	ch, pub := connectedChannel(t, srv)

	stream := ch.Events()
	if err := ch.Connect(); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	if ch.Events() != stream {
		t.Fatal("second Connect replaced the event stream")
	}
	if got := ch.State(); got != StateConnected {
		t.Fatalf("State() = %v, want connected", got)
	}

	// Exactly one subscription per topic: one publish yields one event.
	publish(t, pub, TopicProductCreated, `{"id":3,"name":"Pan","price":20,"active":true}`)
	ev := recvEvent(t, ch)
	if ev.ProductID != 3 {
		t.Fatalf("got %+v, want id 3", ev)
	}
	select {
	case dup := <-ch.Events():
		t.Fatalf("duplicate delivery %+v", dup)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestChannel_DisconnectClosesStream(t *testing.T) {
	srv := startTestNATS(t)
	ch, _ := connectedChannel(t, srv)

	stream := ch.Events()
	ch.Disconnect()

	if _, ok := <-stream; ok {
		t.Fatal("expected event stream to be closed after Disconnect")
	}
	if got := ch.State(); got != StateDisconnected {
		t.Fatalf("State() = %v, want disconnected", got)
	}

	// Idempotent.
	ch.Disconnect()

	// A later Connect yields a fresh, working stream.
	if err := ch.Connect(); err != nil {
		t.Fatalf("reconnect Connect() error = %v", err)
	}
	pub, err := NewNATSPublisher(srv.ClientURL())
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()
	publish(t, pub, TopicProductDeleted, `9`)

	ev := recvEvent(t, ch)
	if ev.Type != EventDeleted || ev.ProductID != 9 {
		t.Fatalf("got %+v, want deleted event for id 9", ev)
	}
}

func TestChannel_ReconnectResubscribes(t *testing.T) {
	srv := startTestNATS(t)
	port := srv.Addr().(*net.TCPAddr).Port

	ch := NewChannel(srv.ClientURL(), testLogger(), WithReconnectWait(50*time.Millisecond))
	if err := ch.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer ch.Disconnect()

	// Kill the broker and wait for the channel to notice.
	srv.Shutdown()
	srv.WaitForShutdown()
	deadline := time.Now().Add(5 * time.Second)
	for ch.State() != StateReconnecting {
		if time.Now().After(deadline) {
			t.Fatal("channel never entered reconnecting state")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Bring a broker back on the same port; the channel must reconnect,
	// signal the consumer, and have its three subscriptions live again.
	restarted := startTestNATSOnPort(t, port)

	select {
	case <-ch.Reconnects():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for reconnect signal")
	}
	if got := ch.State(); got != StateConnected {
		t.Fatalf("State() = %v, want connected", got)
	}

	pub, err := NewNATSPublisher(restarted.ClientURL())
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()
	publish(t, pub, TopicProductUpdated, `{"id":5,"name":"Toaster","price":49.90,"active":true}`)

	ev := recvEvent(t, ch)
	if ev.Type != EventUpdated || ev.ProductID != 5 {
		t.Fatalf("got %+v, want updated event for id 5", ev)
	}
	// Still exactly one subscription per topic after the reconnect.
	select {
	case dup := <-ch.Events():
		t.Fatalf("duplicate delivery after reconnect %+v", dup)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	if err := p.Publish(context.Background(), TopicProductCreated, nil); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
