// Package engine is the media-transport collaborator of the signaling
// client: a WebRTC peer that consumes and produces session
// descriptions and ICE candidates. The signaling client treats it as a
// black box behind this interface.
package engine

import (
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// Engine wraps one peer connection with default codecs and
// interceptors registered.
type Engine struct {
	api *webrtc.API

	mu          sync.Mutex
	peer        *webrtc.PeerConnection
	track       *webrtc.TrackLocalStaticRTP
	ingest      *rtpIngest
	onCandidate func(webrtc.ICECandidateInit)
}

// New initializes the engine with default codecs and interceptors.
func New() (*Engine, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	return &Engine{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(media),
			webrtc.WithInterceptorRegistry(interceptors),
		),
	}, nil
}

// OnLocalCandidate registers the callback receiving locally gathered
// ICE candidates, for trickling to the server.
func (e *Engine) OnLocalCandidate(fn func(webrtc.ICECandidateInit)) {
	e.mu.Lock()
	e.onCandidate = fn
	e.mu.Unlock()
}

// HandleOffer applies a remote offer and returns the local answer.
// Candidates are trickled via OnLocalCandidate rather than gathered
// into the answer.
func (e *Engine) HandleOffer(offer webrtc.SessionDescription) (webrtc.SessionDescription, error) {
	peer, err := e.ensurePeer()
	if err != nil {
		return webrtc.SessionDescription{}, err
	}
	if err := peer.SetRemoteDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("set remote offer: %w", err)
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("create answer: %w", err)
	}
	if err := peer.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("set local answer: %w", err)
	}
	return answer, nil
}

// CreateOffer produces a local offer for publisher negotiation.
func (e *Engine) CreateOffer() (webrtc.SessionDescription, error) {
	peer, err := e.ensurePeer()
	if err != nil {
		return webrtc.SessionDescription{}, err
	}
	offer, err := peer.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("create offer: %w", err)
	}
	if err := peer.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("set local offer: %w", err)
	}
	return offer, nil
}

// HandleAnswer applies the remote answer to a previously created offer.
func (e *Engine) HandleAnswer(answer webrtc.SessionDescription) error {
	e.mu.Lock()
	peer := e.peer
	e.mu.Unlock()
	if peer == nil {
		return fmt.Errorf("no peer connection")
	}
	if err := peer.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("set remote answer: %w", err)
	}
	return nil
}

// AddRemoteCandidate applies one trickled remote candidate.
func (e *Engine) AddRemoteCandidate(candidate webrtc.ICECandidateInit) error {
	e.mu.Lock()
	peer := e.peer
	e.mu.Unlock()
	if peer == nil {
		return fmt.Errorf("no peer connection")
	}
	return peer.AddICECandidate(candidate)
}

// PublishTrack attaches a local RTP track to the peer connection,
// creating both as needed.
func (e *Engine) PublishTrack(name string) (*webrtc.TrackLocalStaticRTP, error) {
	peer, err := e.ensurePeer()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.track != nil {
		return e.track, nil
	}
	track, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264},
		name,
		"roomwire",
	)
	if err != nil {
		return nil, err
	}
	sender, err := peer.AddTrack(track)
	if err != nil {
		return nil, err
	}

	// Drain RTCP so the interceptors keep running.
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()

	e.track = track
	return track, nil
}

// AttachRTP binds a local UDP port feeding RTP into the published
// track. PublishTrack must have been called.
func (e *Engine) AttachRTP(port int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.track == nil {
		return fmt.Errorf("no published track")
	}
	if e.ingest != nil {
		e.ingest.close()
	}
	ingest, err := newRTPIngest(port, e.track)
	if err != nil {
		return err
	}
	e.ingest = ingest
	return nil
}

// Close tears down the ingest and the peer connection.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ingest != nil {
		e.ingest.close()
		e.ingest = nil
	}
	if e.peer != nil {
		_ = e.peer.Close()
		e.peer = nil
	}
	e.track = nil
}

// ensurePeer creates the peer connection on first use and wires the
// candidate callback.
func (e *Engine) ensurePeer() (*webrtc.PeerConnection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer != nil {
		return e.peer, nil
	}
	peer, err := e.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		e.mu.Lock()
		fn := e.onCandidate
		e.mu.Unlock()
		if fn != nil {
			fn(c.ToJSON())
		}
	})
	e.peer = peer
	return peer, nil
}
