package signal

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v3"

	"github.com/frudas24/roomwire/internal/codec"
)

// EncodeRequest serializes an outbound request to its binary frame.
func EncodeRequest(req *Request) ([]byte, error) {
	data, err := codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a binary frame into an inbound response.
func DecodeResponse(data []byte) (*Response, error) {
	var res Response
	if err := codec.Unmarshal(data, &res); err != nil {
		return nil, &DecodeError{Reason: "response frame", Err: err}
	}
	return &res, nil
}

// EncodeCandidate serializes a structured ICE candidate into the JSON
// envelope the wire schema carries as an opaque string.
func EncodeCandidate(candidate webrtc.ICECandidateInit) (string, error) {
	data, err := json.Marshal(candidate)
	if err != nil {
		return "", fmt.Errorf("encode candidate: %w", err)
	}
	return string(data), nil
}

// DecodeCandidate parses the JSON envelope back into the structured
// candidate. A malformed envelope is a DecodeError, not a silent drop.
func DecodeCandidate(raw string) (webrtc.ICECandidateInit, error) {
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return webrtc.ICECandidateInit{}, &DecodeError{Reason: "candidate envelope", Err: err}
	}
	return candidate, nil
}

// ToSessionDescription converts the wire description to the
// transport-neutral form. Direct field copy, no semantic change.
func ToSessionDescription(sd SessionDescription) webrtc.SessionDescription {
	return webrtc.SessionDescription{
		Type: webrtc.NewSDPType(sd.Type),
		SDP:  sd.SDP,
	}
}

// FromSessionDescription converts the transport-neutral description to
// the wire form.
func FromSessionDescription(sd webrtc.SessionDescription) SessionDescription {
	return SessionDescription{
		Type: sd.Type.String(),
		SDP:  sd.SDP,
	}
}
