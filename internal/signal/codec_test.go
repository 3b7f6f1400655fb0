package signal

import (
	"errors"
	"testing"

	"github.com/pion/webrtc/v3"

	"github.com/frudas24/roomwire/internal/codec"
)

// TestCandidate_RoundTrip verifies the JSON envelope preserves every
// candidate field.
func TestCandidate_RoundTrip(t *testing.T) {
	mid := "0"
	index := uint16(0)
	in := webrtc.ICECandidateInit{
		Candidate:     "candidate:1 1 UDP 2122252543 192.0.2.3 54400 typ host",
		SDPMid:        &mid,
		SDPMLineIndex: &index,
	}
	raw, err := EncodeCandidate(in)
	if err != nil {
		t.Fatalf("EncodeCandidate failed: %v", err)
	}
	out, err := DecodeCandidate(raw)
	if err != nil {
		t.Fatalf("DecodeCandidate failed: %v", err)
	}
	if out.Candidate != in.Candidate {
		t.Fatalf("candidate changed: %q != %q", out.Candidate, in.Candidate)
	}
	if out.SDPMid == nil || *out.SDPMid != mid {
		t.Fatalf("sdpMid changed: %+v", out.SDPMid)
	}
	if out.SDPMLineIndex == nil || *out.SDPMLineIndex != index {
		t.Fatalf("sdpMLineIndex changed: %+v", out.SDPMLineIndex)
	}
}

// TestCandidate_Malformed verifies a bad envelope is a DecodeError
// rather than a silent drop.
func TestCandidate_Malformed(t *testing.T) {
	_, err := DecodeCandidate("{not json")
	if err == nil {
		t.Fatalf("expected error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

// TestRequest_EncodeDecodeVariant verifies a request frame carries
// exactly the populated variant.
func TestRequest_EncodeDecodeVariant(t *testing.T) {
	data, err := EncodeRequest(&Request{
		Mute: &MuteRequest{TrackSID: "TR_1", Muted: true},
	})
	if err != nil {
		t.Fatalf("EncodeRequest failed: %v", err)
	}
	// Servers decode requests with the same union layout; re-reading
	// through the response decoder would be the wrong schema, so check
	// via a fresh request decode.
	var out Request
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Mute == nil || out.Mute.TrackSID != "TR_1" || !out.Mute.Muted {
		t.Fatalf("unexpected request: %+v", out)
	}
	if out.Offer != nil || out.Leave != nil {
		t.Fatalf("unexpected extra variants: %+v", out)
	}
}

// TestTrackSettings_LowQualityOnWire verifies an explicit low-quality
// request stays distinguishable from unset in the encoded frame.
func TestTrackSettings_LowQualityOnWire(t *testing.T) {
	data, err := EncodeRequest(&Request{
		TrackSettings: &TrackSettings{TrackSIDs: []string{"TR_1"}, Quality: QualityLow},
	})
	if err != nil {
		t.Fatalf("EncodeRequest failed: %v", err)
	}
	var raw map[string]map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	settings, ok := raw["trackSettings"]
	if !ok {
		t.Fatalf("missing trackSettings: %v", raw)
	}
	if _, ok := settings["quality"]; !ok {
		t.Fatalf("quality omitted from frame: %v", settings)
	}

	var out Request
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.TrackSettings == nil || out.TrackSettings.Quality != QualityLow {
		t.Fatalf("unexpected settings: %+v", out.TrackSettings)
	}
}

// TestDecodeResponse_Malformed verifies garbage bytes fail with a
// DecodeError.
func TestDecodeResponse_Malformed(t *testing.T) {
	_, err := DecodeResponse([]byte{0xff, 0x00, 0x13, 0x37})
	if err == nil {
		t.Fatalf("expected error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

// TestSessionDescription_Translation verifies the wire and
// transport-neutral forms convert field-for-field.
func TestSessionDescription_Translation(t *testing.T) {
	sd := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"}
	wire := FromSessionDescription(sd)
	if wire.Type != "offer" || wire.SDP != "v=0" {
		t.Fatalf("unexpected wire form: %+v", wire)
	}
	back := ToSessionDescription(wire)
	if back.Type != webrtc.SDPTypeOffer || back.SDP != "v=0" {
		t.Fatalf("unexpected round trip: %+v", back)
	}
}
