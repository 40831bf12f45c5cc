package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func admitDashboard(t *testing.T, registry *Registry, identity string) *fakeTransport {
	t.Helper()

	transport := &fakeTransport{}
	_, customErr := registry.Admit(identity, tokenFor(identity), DashboardNamespace, transport, TagDashboard)
	if customErr != nil {
		t.Fatalf("dashboard Admit(%q) failed: %v", identity, customErr)
	}
	return transport
}

func decodeEnvelope(t *testing.T, frame []byte) (FrameType, json.RawMessage) {
	t.Helper()

	var envelope struct {
		Type    FrameType       `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	return envelope.Type, envelope.Payload
}

func TestBroadcaster_SnapshotReflectsPushedValues(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, time.Hour)

	broadcaster.SetMetric("connections.active", 42)
	broadcaster.SetMetric("queue.outstanding", 7)
	broadcaster.SetMetric("connections.active", 43) // later push wins

	snapshot := broadcaster.BuildSnapshot()

	if snapshot.Timestamp == 0 {
		t.Error("snapshot timestamp is zero")
	}
	if got := snapshot.Metrics["connections.active"]; got != 43 {
		t.Errorf("connections.active = %v, want 43", got)
	}
	if got := snapshot.Metrics["queue.outstanding"]; got != 7 {
		t.Errorf("queue.outstanding = %v, want 7", got)
	}
}

func TestBroadcaster_SnapshotFansOutToAllSubscribers(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, time.Hour)

	d1 := admitDashboard(t, registry, "guest_OpsOne")
	d2 := admitDashboard(t, registry, "guest_OpsTwo")

	broadcaster.SetMetric("rooms.total", 12)
	broadcaster.broadcastSnapshot()

	for name, transport := range map[string]*fakeTransport{"d1": d1, "d2": d2} {
		if transport.frameCount() != 1 {
			t.Fatalf("%s received %d frames, want 1", name, transport.frameCount())
		}
	}

	// Both subscribers see the identical snapshot.
	if string(d1.frameAt(0)) != string(d2.frameAt(0)) {
		t.Error("subscribers received differing snapshot frames")
	}

	frameType, payload := decodeEnvelope(t, d1.frameAt(0))
	if frameType != FrameSnapshot {
		t.Errorf("frame type = %q, want %q", frameType, FrameSnapshot)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		t.Fatalf("failed to decode snapshot payload: %v", err)
	}
	if got := snapshot.Metrics["rooms.total"]; got != 12 {
		t.Errorf("rooms.total = %v, want 12", got)
	}
}

func TestBroadcaster_AlertBroadcastImmediate(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, time.Hour)

	transport := admitDashboard(t, registry, "guest_OpsOne")

	broadcaster.PublishAlert("storage_degraded", "S3 latency above threshold")

	if transport.frameCount() != 1 {
		t.Fatalf("received %d frames, want 1", transport.frameCount())
	}

	frameType, payload := decodeEnvelope(t, transport.frameAt(0))
	if frameType != FrameAlert {
		t.Errorf("frame type = %q, want %q", frameType, FrameAlert)
	}

	var alert Alert
	if err := json.Unmarshal(payload, &alert); err != nil {
		t.Fatalf("failed to decode alert payload: %v", err)
	}
	if alert.Kind != "storage_degraded" || alert.Message != "S3 latency above threshold" {
		t.Errorf("alert = %+v", alert)
	}
	if alert.Timestamp == 0 {
		t.Error("alert timestamp is zero")
	}
}

func TestBroadcaster_SlowSubscriberIsDropped(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, time.Hour)

	slow := admitDashboard(t, registry, "guest_OpsOne")
	slow.setFailSend(true)
	healthy := admitDashboard(t, registry, "guest_OpsTwo")

	// A slow subscriber must not affect the healthy one; nothing is queued.
	broadcaster.PublishAlert("identity_flapping", "guest_Flappy keeps failing")

	if healthy.frameCount() != 1 {
		t.Errorf("healthy subscriber received %d frames, want 1", healthy.frameCount())
	}

	slow.setFailSend(false)
	broadcaster.broadcastSnapshot()

	// Only the new snapshot arrives; the dropped alert is never retried.
	if slow.frameCount() != 1 {
		t.Errorf("recovered subscriber received %d frames, want 1 (no redelivery)", slow.frameCount())
	}
}

func TestBroadcaster_ChatConnectionsNotSubscribed(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, time.Hour)

	_, chatTransport := mustAdmit(t, registry, "guest_User01")
	dashTransport := admitDashboard(t, registry, "guest_OpsOne")

	broadcaster.broadcastSnapshot()

	if chatTransport.frameCount() != 0 {
		t.Errorf("chat connection received %d dashboard frames, want 0", chatTransport.frameCount())
	}
	if dashTransport.frameCount() != 1 {
		t.Errorf("dashboard connection received %d frames, want 1", dashTransport.frameCount())
	}
}

func TestBroadcaster_TickLoopAndShutdown(t *testing.T) {
	registry := newTestRegistry(5)
	broadcaster := NewBroadcaster(registry, 5*time.Millisecond)

	transport := admitDashboard(t, registry, "guest_OpsOne")

	broadcaster.Start()

	deadline := time.After(2 * time.Second)
	for transport.frameCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for periodic snapshots")
		case <-time.After(5 * time.Millisecond):
		}
	}

	broadcaster.Shutdown()
	broadcaster.Shutdown() // idempotent

	count := transport.frameCount()
	time.Sleep(30 * time.Millisecond)
	if transport.frameCount() != count {
		t.Error("snapshots kept arriving after Shutdown")
	}
}

func TestBroadcaster_ImplementsRegistryAlertSink(t *testing.T) {
	registry := newTestRegistry(2)
	broadcaster := NewBroadcaster(registry, time.Hour)
	registry.SetAlertSink(broadcaster)

	transport := admitDashboard(t, registry, "guest_OpsOne")

	// Two failed handshakes hit the flap ceiling and surface on the dashboard.
	registry.Admit("guest_Flappy", "garbage", DefaultNamespace, &fakeTransport{})
	registry.Admit("guest_Flappy", "garbage", DefaultNamespace, &fakeTransport{})

	if transport.frameCount() != 1 {
		t.Fatalf("dashboard received %d frames, want 1 flapping alert", transport.frameCount())
	}

	frameType, payload := decodeEnvelope(t, transport.frameAt(0))
	if frameType != FrameAlert {
		t.Fatalf("frame type = %q, want %q", frameType, FrameAlert)
	}

	var alert Alert
	if err := json.Unmarshal(payload, &alert); err != nil {
		t.Fatalf("failed to decode alert payload: %v", err)
	}
	if alert.Kind != AlertKindFlapping {
		t.Errorf("alert kind = %q, want %q", alert.Kind, AlertKindFlapping)
	}
}
