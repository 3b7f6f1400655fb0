// Package main starts the roomwire demo client.
package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"os/signal"

	"github.com/pion/webrtc/v3"

	"github.com/frudas24/roomwire/internal/config"
	"github.com/frudas24/roomwire/internal/engine"
	sig "github.com/frudas24/roomwire/internal/signal"
)

// run wires the signaling client to the media engine and blocks until
// shutdown or server leave.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	client := sig.NewClient(log.Default())
	defer client.Close()

	done := make(chan struct{})
	client.SetObserver(&sessionObserver{
		logger: log.Default(),
		client: client,
		engine: eng,
		done:   done,
	})
	eng.OnLocalCandidate(func(candidate webrtc.ICECandidateInit) {
		client.SendTrickle(candidate, sig.TargetPublisher)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := &sig.ConnectOptions{AutoSubscribe: cfg.AutoSubscribe}
	if err := client.Join(ctx, cfg.ServerURL, cfg.Token, opts); err != nil {
		return err
	}

	if _, err := eng.PublishTrack(cfg.TrackName); err != nil {
		return err
	}
	if err := eng.AttachRTP(cfg.RTPPort); err != nil {
		return err
	}
	client.SendAddTrack(&sig.AddTrackRequest{
		CID:  cfg.TrackName,
		Name: cfg.TrackName,
		Type: sig.TrackTypeVideo,
	})
	log.Printf("rtp ingest: 127.0.0.1:%d", cfg.RTPPort)

	select {
	case <-ctx.Done():
		client.SendLeave("client shutdown")
	case <-done:
	}
	return nil
}

// sessionObserver forwards server events into the media engine and
// signals run() when the session ends.
type sessionObserver struct {
	sig.NopObserver
	logger *log.Logger
	client *sig.Client
	engine *engine.Engine
	done   chan struct{}
}

// OnConnected reports the established session.
func (o *sessionObserver) OnConnected(join *sig.JoinResponse) {
	o.logger.Printf("session: joined %q as %q (%d others)",
		join.Room.Name, join.Participant.Identity, len(join.OtherParticipants))
}

// OnOffer answers a server renegotiation offer.
func (o *sessionObserver) OnOffer(sd webrtc.SessionDescription) {
	answer, err := o.engine.HandleOffer(sd)
	if err != nil {
		o.logger.Printf("session: offer: %v", err)
		return
	}
	o.client.SendAnswer(answer)
}

// OnAnswer completes a client-initiated negotiation.
func (o *sessionObserver) OnAnswer(sd webrtc.SessionDescription) {
	if err := o.engine.HandleAnswer(sd); err != nil {
		o.logger.Printf("session: answer: %v", err)
	}
}

// OnTrickle applies a remote candidate.
func (o *sessionObserver) OnTrickle(candidate webrtc.ICECandidateInit, target sig.SignalTarget) {
	if err := o.engine.AddRemoteCandidate(candidate); err != nil {
		o.logger.Printf("session: candidate (%s): %v", target, err)
	}
}

// OnParticipantUpdate logs participant changes.
func (o *sessionObserver) OnParticipantUpdate(participants []sig.ParticipantInfo) {
	for _, p := range participants {
		o.logger.Printf("session: participant %s (%s): %s", p.Identity, p.SID, p.State)
	}
}

// OnLocalTrackPublished logs the publish acknowledgement.
func (o *sessionObserver) OnLocalTrackPublished(res *sig.TrackPublishedResponse) {
	o.logger.Printf("session: track %q published as %s", res.CID, res.Track.SID)
}

// OnActiveSpeakersChanged logs speaker changes.
func (o *sessionObserver) OnActiveSpeakersChanged(speakers []sig.SpeakerInfo) {
	o.logger.Printf("session: %d active speakers", len(speakers))
}

// OnLeave closes the client; the server ended the session.
func (o *sessionObserver) OnLeave(leave *sig.LeaveNotice) {
	o.logger.Printf("session: server leave: %s (reconnect allowed: %t)", leave.Reason, leave.CanReconnect)
	o.client.Close()
	close(o.done)
}

// OnClose reports why the connection dropped and unblocks run().
func (o *sessionObserver) OnClose(reason string) {
	if reason == "" {
		o.logger.Printf("session: closed")
	} else {
		o.logger.Printf("session: closed: %s", reason)
	}
	close(o.done)
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("roomwire starting")
	if u, err := url.Parse(cfg.ServerURL); err == nil {
		log.Printf("server: %s://%s", u.Scheme, u.Host)
	} else {
		log.Printf("server: %s", cfg.ServerURL)
	}
	if cfg.AutoSubscribe != nil {
		log.Printf("auto subscribe: %t", *cfg.AutoSubscribe)
	} else {
		log.Printf("auto subscribe: server default")
	}
	log.Printf("track: %s", cfg.TrackName)
}
