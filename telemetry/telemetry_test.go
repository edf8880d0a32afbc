package telemetry

import (
	"crypto/hmac"
	"encoding/json"
	"testing"

	"github.com/mousetail/robot-rumble-genetic-bot/population"
)

func TestBroadcastDropsLaggingSubscriber(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()

	for i := 0; i < bufferSlots+1; i++ {
		hub.Broadcast(Snapshot{IterationNumber: i})
	}

	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected the lagging subscriber to be dropped, count=%d", hub.SubscriberCount())
	}

	drained := 0
	for range ch {
		drained++
	}
	if drained != bufferSlots {
		t.Fatalf("expected exactly %d buffered frames, got %d", bufferSlots, drained)
	}
}

func TestBroadcastReachesIdleSubscriber(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Broadcast(Snapshot{IterationNumber: 42})

	select {
	case snap := <-ch:
		if snap.IterationNumber != 42 {
			t.Fatalf("expected iteration 42, got %d", snap.IterationNumber)
		}
	default:
		t.Fatalf("expected a buffered snapshot")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	key := []byte("test-key")
	snap := Snapshot{
		BestBot:         &population.Bot{SpeciesID: 7},
		IterationNumber: 3,
	}

	frame, err := Sign(key, snap)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if err := Verify(key, frame); err != nil {
		t.Fatalf("expected verification to succeed: %v", err)
	}

	frame.MAC[0] ^= 0xFF
	if err := Verify(key, frame); err == nil {
		t.Fatalf("expected verification to fail for a tampered MAC")
	}
}

func TestSignerCompanionFrameDisabledByDefault(t *testing.T) {
	var signer *Signer
	companion, err := signer.companionFrame(Snapshot{IterationNumber: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if companion != nil {
		t.Fatalf("expected a nil Signer to produce no companion frame")
	}
}

func TestSignerCompanionFrameCarriesMAC(t *testing.T) {
	signer := &Signer{Key: []byte("test-key")}
	snap := Snapshot{IterationNumber: 9}

	companion, err := signer.companionFrame(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if companion == nil {
		t.Fatalf("expected a companion frame when a Signer is set")
	}

	var got signatureFrame
	if err := json.Unmarshal(companion, &got); err != nil {
		t.Fatalf("failed to unmarshal companion frame: %v", err)
	}
	if got.Kind != "x-snapshot-signature" {
		t.Fatalf("expected kind x-snapshot-signature, got %q", got.Kind)
	}

	want, err := Sign(signer.Key, snap)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if !hmac.Equal(got.MAC, want.MAC) {
		t.Fatalf("expected companion MAC to match Sign's output")
	}
}
