package signal

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
)

// Client owns the control channel to the session server. At most one
// websocket connection is live at a time; Join and Reconnect replace
// it wholesale, and messages still in flight on a replaced connection
// are never dispatched.
type Client struct {
	logger     *log.Logger
	dialer     *websocket.Dialer
	httpClient *http.Client

	mu        sync.Mutex
	writeMu   sync.Mutex
	conn      *websocket.Conn
	connected bool
	observer  Observer
	lastPong  time.Time
}

// NewClient creates a disconnected client logging through logger. A nil
// logger falls back to the process default.
func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		logger:     logger,
		dialer:     websocket.DefaultDialer,
		httpClient: http.DefaultClient,
		observer:   NopObserver{},
	}
}

// SetObserver registers the observer receiving server events. A new
// registration replaces the previous one; nil restores the no-op
// observer.
func (c *Client) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	c.mu.Lock()
	c.observer = obs
	c.mu.Unlock()
}

// IsConnected reports whether the server has acknowledged the session.
// False until the first join acknowledgement arrives, and after any
// close or connection error.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LastPong returns when the server last answered a keepalive, or the
// zero time if it never has on the current connection's session.
func (c *Client) LastPong() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPong
}

// Join opens the control channel for a new session. The connection is
// not considered established until the server's join acknowledgement
// arrives and OnConnected fires. When the websocket cannot be opened,
// Join probes the validation endpoint once to classify the failure and
// returns a ConnectError.
func (c *Client) Join(ctx context.Context, baseURL, token string, opts *ConnectOptions) error {
	u, err := JoinURL(baseURL, token, opts)
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return c.classifyDialFailure(ctx, baseURL, token, opts, err)
	}

	c.install(conn, false)
	go c.readPump(conn)
	return nil
}

// Reconnect resumes an existing session on a fresh connection. Any
// current connection is closed first. Unlike Join, a successful dial
// marks the client connected immediately; the server already knows the
// session, so no acknowledgement is awaited. No observer callbacks
// fire during the transition.
func (c *Client) Reconnect(ctx context.Context, baseURL, token string) error {
	u, err := ReconnectURL(baseURL, token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return err
	}

	c.install(conn, true)
	go c.readPump(conn)
	return nil
}

// Close tears down the connection after a best-effort leave notice.
// Idempotent. Close does not fire OnClose; the caller initiated the
// shutdown and needs no notification.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	if conn == nil {
		return
	}

	if data, err := EncodeRequest(&Request{Leave: &LeaveRequest{}}); err == nil {
		c.writeMu.Lock()
		_ = conn.WriteMessage(websocket.BinaryMessage, data)
		c.writeMu.Unlock()
	}
	_ = conn.Close()
}

// install makes conn the single live connection, closing any previous
// one that slipped in.
func (c *Client) install(conn *websocket.Conn, connected bool) {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.connected = connected
	c.mu.Unlock()
}

// classifyDialFailure probes the validation endpoint once to narrow an
// opaque dial failure (TLS problem vs. server rejection vs. network
// unreachable). A non-success probe response becomes the ConnectError
// detail; a failed or successful probe yields a bare ConnectError.
func (c *Client) classifyDialFailure(ctx context.Context, baseURL, token string, opts *ConnectOptions, dialErr error) error {
	u, err := ValidateURL(baseURL, token, opts)
	if err != nil {
		return &ConnectError{Err: dialErr}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &ConnectError{Err: dialErr}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("signal: validation probe failed: %v", err)
		return &ConnectError{Err: dialErr}
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		// The endpoint validates but the socket would not open; nothing
		// more specific to report.
		return &ConnectError{Err: dialErr}
	}
	body, _ := io.ReadAll(res.Body)
	return &ConnectError{Detail: strings.TrimSpace(string(body)), Err: dialErr}
}

// readPump consumes conn's inbound frames until the stream ends. One
// pump runs per connection lifetime; a pump whose connection has been
// replaced drains silently.
func (c *Client) readPump(conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.streamEnded(conn, err)
			return
		}
		if msgType != websocket.BinaryMessage {
			// Heartbeats and other non-protocol traffic.
			continue
		}
		res, err := DecodeResponse(data)
		if err != nil {
			c.reportDecodeError(conn, err)
			continue
		}
		c.dispatch(conn, res)
	}
}

// dispatch routes one decoded response to the observer. Responses from
// a connection that is no longer current are dropped. The first join
// acknowledgement flips the connected latch and fires OnConnected;
// repeats are suppressed by the latch.
func (c *Client) dispatch(conn *websocket.Conn, res *Response) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	obs := c.observer
	if res.Join != nil {
		if c.connected {
			c.mu.Unlock()
			return
		}
		c.connected = true
		c.mu.Unlock()
		obs.OnConnected(res.Join)
		return
	}
	c.mu.Unlock()

	switch {
	case res.Answer != nil:
		obs.OnAnswer(ToSessionDescription(*res.Answer))
	case res.Offer != nil:
		obs.OnOffer(ToSessionDescription(*res.Offer))
	case res.Trickle != nil:
		candidate, err := DecodeCandidate(res.Trickle.CandidateInit)
		if err != nil {
			c.reportDecodeError(conn, err)
			return
		}
		obs.OnTrickle(candidate, res.Trickle.Target)
	case res.Update != nil:
		obs.OnParticipantUpdate(res.Update.Participants)
	case res.TrackPublished != nil:
		obs.OnLocalTrackPublished(res.TrackPublished)
	case res.Speakers != nil:
		obs.OnActiveSpeakersChanged(res.Speakers.Speakers)
	case res.Leave != nil:
		obs.OnLeave(res.Leave)
	case res.Pong != nil:
		// Keepalive; record when the server was last heard from.
		c.mu.Lock()
		if c.conn == conn {
			c.lastPong = time.UnixMilli(res.Pong.Timestamp)
		}
		c.mu.Unlock()
	default:
		c.logger.Printf("signal: dropping response with no known variant")
	}
}

// streamEnded handles the terminal read error of a connection's pump.
// If the connection was established, the connected latch drops and
// OnClose fires once. A stream that ends before any acknowledgement is
// silent here; that failure is Join's to report. Replaced connections
// are ignored either way.
func (c *Client) streamEnded(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	wasConnected := c.connected
	c.connected = false
	c.conn = nil
	obs := c.observer
	c.mu.Unlock()
	_ = conn.Close()

	if !wasConnected {
		return
	}
	reason := ""
	if err != nil && !isExpectedClose(err) {
		reason = err.Error()
	}
	obs.OnClose(reason)
}

// reportDecodeError logs a malformed frame and forwards it to the
// observer when it opted in via DecodeErrorObserver.
func (c *Client) reportDecodeError(conn *websocket.Conn, err error) {
	c.logger.Printf("signal: %v", err)
	c.mu.Lock()
	current := c.conn == conn
	obs := c.observer
	c.mu.Unlock()
	if !current {
		return
	}
	if deo, ok := obs.(DecodeErrorObserver); ok {
		deo.OnDecodeError(err)
	}
}

// isExpectedClose reports whether err is an orderly websocket shutdown
// rather than a failure worth surfacing as a close reason.
func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		err == io.EOF
}

// SendRequest encodes and writes one outbound request. With no open
// connection the send is logged and dropped; protocol sends are
// fire-and-forget and never error back to the caller.
func (c *Client) SendRequest(req *Request) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.logger.Printf("signal: send dropped, no open connection")
		return
	}
	data, err := EncodeRequest(req)
	if err != nil {
		c.logger.Printf("signal: %v", err)
		return
	}
	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.BinaryMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Printf("signal: write failed: %v", err)
	}
}

// SendOffer sends a client-initiated session offer.
func (c *Client) SendOffer(sd webrtc.SessionDescription) {
	wire := FromSessionDescription(sd)
	c.SendRequest(&Request{Offer: &wire})
}

// SendAnswer answers a server-initiated offer.
func (c *Client) SendAnswer(sd webrtc.SessionDescription) {
	wire := FromSessionDescription(sd)
	c.SendRequest(&Request{Answer: &wire})
}

// SendTrickle trickles one local ICE candidate for the given target.
func (c *Client) SendTrickle(candidate webrtc.ICECandidateInit, target SignalTarget) {
	raw, err := EncodeCandidate(candidate)
	if err != nil {
		c.logger.Printf("signal: %v", err)
		return
	}
	c.SendRequest(&Request{Trickle: &Trickle{CandidateInit: raw, Target: target}})
}

// SendMute changes a published track's mute state.
func (c *Client) SendMute(trackSID string, muted bool) {
	c.SendRequest(&Request{Mute: &MuteRequest{TrackSID: trackSID, Muted: muted}})
}

// SendAddTrack announces a new local track.
func (c *Client) SendAddTrack(req *AddTrackRequest) {
	c.SendRequest(&Request{AddTrack: req})
}

// SendTrackSettings adjusts delivery of subscribed tracks.
func (c *Client) SendTrackSettings(settings *TrackSettings) {
	c.SendRequest(&Request{TrackSettings: settings})
}

// SendSubscription subscribes to or unsubscribes from tracks.
func (c *Client) SendSubscription(trackSIDs []string, subscribe bool) {
	c.SendRequest(&Request{Subscription: &SubscriptionRequest{TrackSIDs: trackSIDs, Subscribe: subscribe}})
}

// SendSimulcastLayers selects the forwarded simulcast layers of a
// published track.
func (c *Client) SendSimulcastLayers(trackSID string, layers []VideoQuality) {
	c.SendRequest(&Request{Simulcast: &SimulcastLayers{TrackSID: trackSID, Layers: layers}})
}

// SendLeave notifies the server the client is leaving, without closing
// the connection.
func (c *Client) SendLeave(reason string) {
	c.SendRequest(&Request{Leave: &LeaveRequest{Reason: reason}})
}
