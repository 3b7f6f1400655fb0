package engine

import (
	"testing"

	"github.com/pion/webrtc/v3"
)

// TestHandleOffer_ProducesAnswer verifies a remote offer yields a
// local answer without waiting for candidate gathering.
func TestHandleOffer_ProducesAnswer(t *testing.T) {
	remote, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("remote peer: %v", err)
	}
	defer remote.Close()
	if _, err := remote.CreateDataChannel("probe", nil); err != nil {
		t.Fatalf("data channel: %v", err)
	}
	offer, err := remote.CreateOffer(nil)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if err := remote.SetLocalDescription(offer); err != nil {
		t.Fatalf("set local: %v", err)
	}

	eng, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close()

	answer, err := eng.HandleOffer(offer)
	if err != nil {
		t.Fatalf("HandleOffer failed: %v", err)
	}
	if answer.Type != webrtc.SDPTypeAnswer || answer.SDP == "" {
		t.Fatalf("unexpected answer: %+v", answer)
	}
}

// TestCreateOffer_ThenAnswer verifies the publish negotiation path.
func TestCreateOffer_ThenAnswer(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close()

	if _, err := eng.PublishTrack("video"); err != nil {
		t.Fatalf("PublishTrack failed: %v", err)
	}
	offer, err := eng.CreateOffer()
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	if offer.Type != webrtc.SDPTypeOffer || offer.SDP == "" {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	remote, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("remote peer: %v", err)
	}
	defer remote.Close()
	if err := remote.SetRemoteDescription(offer); err != nil {
		t.Fatalf("remote set offer: %v", err)
	}
	answer, err := remote.CreateAnswer(nil)
	if err != nil {
		t.Fatalf("remote answer: %v", err)
	}
	if err := remote.SetLocalDescription(answer); err != nil {
		t.Fatalf("remote set local: %v", err)
	}
	if err := eng.HandleAnswer(answer); err != nil {
		t.Fatalf("HandleAnswer failed: %v", err)
	}
}

// TestAddRemoteCandidate_NoPeer verifies candidates before any
// negotiation are an error, not a panic.
func TestAddRemoteCandidate_NoPeer(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close()
	if err := eng.AddRemoteCandidate(webrtc.ICECandidateInit{Candidate: "candidate:1"}); err == nil {
		t.Fatalf("expected error without a peer connection")
	}
}

// TestAttachRTP_RequiresTrack verifies ingest needs a published track.
func TestAttachRTP_RequiresTrack(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer eng.Close()
	if err := eng.AttachRTP(0); err == nil {
		t.Fatalf("expected error without a track")
	}
}
