package signal

import "github.com/pion/webrtc/v3"

// Observer receives everything the signaling client learns from the
// server. At most one observer is registered at a time; registering a
// new one replaces the previous. Callbacks are invoked from the
// connection's read goroutine, one at a time.
type Observer interface {
	// OnConnected fires exactly once per join, when the server
	// acknowledges the session.
	OnConnected(join *JoinResponse)
	// OnClose fires when an established connection ends. reason is
	// empty for a clean shutdown.
	OnClose(reason string)
	// OnOffer delivers a server-initiated renegotiation offer.
	OnOffer(sd webrtc.SessionDescription)
	// OnAnswer delivers the server's answer to a client offer.
	OnAnswer(sd webrtc.SessionDescription)
	// OnTrickle delivers one remote ICE candidate for the given target.
	OnTrickle(candidate webrtc.ICECandidateInit, target SignalTarget)
	// OnParticipantUpdate delivers a batch of participant changes.
	OnParticipantUpdate(participants []ParticipantInfo)
	// OnLocalTrackPublished acknowledges a previously sent add-track
	// request.
	OnLocalTrackPublished(res *TrackPublishedResponse)
	// OnActiveSpeakersChanged delivers a batch of audio-level changes.
	OnActiveSpeakersChanged(speakers []SpeakerInfo)
	// OnLeave delivers the server's leave notice. The client does not
	// tear down the connection on its own; that is the observer's call.
	OnLeave(leave *LeaveNotice)
}

// DecodeErrorObserver is an optional extension of Observer. When the
// registered observer implements it, malformed inbound frames are
// reported through OnDecodeError instead of only being logged.
type DecodeErrorObserver interface {
	OnDecodeError(err error)
}

// NopObserver ignores every callback. Embed it to implement only the
// callbacks you care about.
type NopObserver struct{}

func (NopObserver) OnConnected(*JoinResponse)                       {}
func (NopObserver) OnClose(string)                                  {}
func (NopObserver) OnOffer(webrtc.SessionDescription)               {}
func (NopObserver) OnAnswer(webrtc.SessionDescription)              {}
func (NopObserver) OnTrickle(webrtc.ICECandidateInit, SignalTarget) {}
func (NopObserver) OnParticipantUpdate([]ParticipantInfo)           {}
func (NopObserver) OnLocalTrackPublished(*TrackPublishedResponse)   {}
func (NopObserver) OnActiveSpeakersChanged([]SpeakerInfo)           {}
func (NopObserver) OnLeave(*LeaveNotice)                            {}

var _ Observer = NopObserver{}
