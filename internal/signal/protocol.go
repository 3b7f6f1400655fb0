// Package signal implements the signaling client for a media session:
// it opens the control channel to the session server, exchanges the
// messages that negotiate the media transport (session descriptions,
// trickled ICE candidates), and reports session state changes
// (participants, published tracks, active speakers, leave) to a
// registered observer.
package signal

// ProtocolVersion is the signaling protocol revision sent with every
// connection attempt. Servers reject versions they do not speak.
const ProtocolVersion = 3

// SignalTarget designates which peer transport a trickled candidate is
// addressed to.
type SignalTarget int

// Candidate targets.
const (
	TargetPublisher SignalTarget = iota
	TargetSubscriber
)

// String returns the target name for logging.
func (t SignalTarget) String() string {
	switch t {
	case TargetPublisher:
		return "publisher"
	case TargetSubscriber:
		return "subscriber"
	default:
		return "unknown"
	}
}

// TrackType identifies the media kind of a track.
type TrackType string

// Track kinds.
const (
	TrackTypeAudio TrackType = "audio"
	TrackTypeVideo TrackType = "video"
)

// VideoQuality selects a simulcast layer.
type VideoQuality int

// Simulcast layers, lowest first.
const (
	QualityLow VideoQuality = iota
	QualityMedium
	QualityHigh
)

// SessionDescription is the wire form of a negotiated media-capability
// document. It converts field-for-field to the transport-neutral form,
// see ToSessionDescription and FromSessionDescription.
type SessionDescription struct {
	Type string `cbor:"type"`
	SDP  string `cbor:"sdp"`
}

// Trickle carries one ICE candidate. The candidate itself travels as an
// opaque JSON string, see EncodeCandidate and DecodeCandidate.
type Trickle struct {
	CandidateInit string       `cbor:"candidateInit"`
	Target        SignalTarget `cbor:"target"`
}

// TrackInfo describes a track published to the session.
type TrackInfo struct {
	SID    string    `cbor:"sid"`
	Name   string    `cbor:"name"`
	Type   TrackType `cbor:"type"`
	Muted  bool      `cbor:"muted"`
	Width  uint32    `cbor:"width,omitempty"`
	Height uint32    `cbor:"height,omitempty"`
}

// ParticipantInfo describes one session participant and their tracks.
type ParticipantInfo struct {
	SID      string      `cbor:"sid"`
	Identity string      `cbor:"identity"`
	Name     string      `cbor:"name,omitempty"`
	State    string      `cbor:"state"`
	Tracks   []TrackInfo `cbor:"tracks,omitempty"`
}

// SpeakerInfo reports the audio level of one participant.
type SpeakerInfo struct {
	SID    string  `cbor:"sid"`
	Level  float32 `cbor:"level"`
	Active bool    `cbor:"active"`
}

// Room identifies the session the client joined.
type Room struct {
	SID  string `cbor:"sid"`
	Name string `cbor:"name"`
}

// JoinResponse is the server's acknowledgement that a session has been
// created for this client. Its arrival is what flips the client to
// connected.
type JoinResponse struct {
	Room              Room              `cbor:"room"`
	Participant       ParticipantInfo   `cbor:"participant"`
	OtherParticipants []ParticipantInfo `cbor:"otherParticipants,omitempty"`
	ServerVersion     string            `cbor:"serverVersion,omitempty"`
	SubscriberPrimary bool              `cbor:"subscriberPrimary,omitempty"`
}

// LeaveNotice is the server telling the client the session is over.
// The client does not act on it; the observer decides what to do.
type LeaveNotice struct {
	Reason       string `cbor:"reason,omitempty"`
	CanReconnect bool   `cbor:"canReconnect,omitempty"`
}

// MuteRequest asks the server to change a published track's mute state.
type MuteRequest struct {
	TrackSID string `cbor:"trackSid"`
	Muted    bool   `cbor:"muted"`
}

// AddTrackRequest announces a new local track before media flows. CID
// is the client-chosen correlation id echoed back in
// TrackPublishedResponse.
type AddTrackRequest struct {
	CID    string    `cbor:"cid"`
	Name   string    `cbor:"name"`
	Type   TrackType `cbor:"type"`
	Width  uint32    `cbor:"width,omitempty"`
	Height uint32    `cbor:"height,omitempty"`
	Muted  bool      `cbor:"muted,omitempty"`
}

// TrackPublishedResponse acknowledges an AddTrackRequest.
type TrackPublishedResponse struct {
	CID   string    `cbor:"cid"`
	Track TrackInfo `cbor:"track"`
}

// ParticipantUpdate is a batch of participant state changes.
type ParticipantUpdate struct {
	Participants []ParticipantInfo `cbor:"participants"`
}

// SpeakersChanged is a batch of audio-level changes.
type SpeakersChanged struct {
	Speakers []SpeakerInfo `cbor:"speakers"`
}

// TrackSettings adjusts how subscribed tracks are delivered.
type TrackSettings struct {
	TrackSIDs []string     `cbor:"trackSids"`
	Disabled  bool         `cbor:"disabled,omitempty"`
	Quality   VideoQuality `cbor:"quality"`
	Width     uint32       `cbor:"width,omitempty"`
	Height    uint32       `cbor:"height,omitempty"`
}

// SubscriptionRequest subscribes to or unsubscribes from tracks.
type SubscriptionRequest struct {
	TrackSIDs []string `cbor:"trackSids"`
	Subscribe bool     `cbor:"subscribe"`
}

// SimulcastLayers selects which simulcast layers the server should
// forward for a published track.
type SimulcastLayers struct {
	TrackSID string         `cbor:"trackSid"`
	Layers   []VideoQuality `cbor:"layers"`
}

// LeaveRequest notifies the server the client is leaving.
type LeaveRequest struct {
	Reason string `cbor:"reason,omitempty"`
}

// Pong answers a server keepalive.
type Pong struct {
	Timestamp int64 `cbor:"timestamp"`
}

// Request is the outbound message union. Exactly one field is non-nil
// per message.
type Request struct {
	Offer         *SessionDescription  `cbor:"offer,omitempty"`
	Answer        *SessionDescription  `cbor:"answer,omitempty"`
	Trickle       *Trickle             `cbor:"trickle,omitempty"`
	Mute          *MuteRequest         `cbor:"mute,omitempty"`
	AddTrack      *AddTrackRequest     `cbor:"addTrack,omitempty"`
	TrackSettings *TrackSettings       `cbor:"trackSettings,omitempty"`
	Subscription  *SubscriptionRequest `cbor:"subscription,omitempty"`
	Simulcast     *SimulcastLayers     `cbor:"simulcast,omitempty"`
	Leave         *LeaveRequest        `cbor:"leave,omitempty"`
}

// Response is the inbound message union. Exactly one field is non-nil
// per decoded frame; a frame with no recognized variant set is dropped
// by the dispatcher.
type Response struct {
	Join           *JoinResponse           `cbor:"join,omitempty"`
	Answer         *SessionDescription     `cbor:"answer,omitempty"`
	Offer          *SessionDescription     `cbor:"offer,omitempty"`
	Trickle        *Trickle                `cbor:"trickle,omitempty"`
	Update         *ParticipantUpdate      `cbor:"update,omitempty"`
	TrackPublished *TrackPublishedResponse `cbor:"trackPublished,omitempty"`
	Speakers       *SpeakersChanged        `cbor:"speakers,omitempty"`
	Leave          *LeaveNotice            `cbor:"leave,omitempty"`
	Pong           *Pong                   `cbor:"pong,omitempty"`
}
