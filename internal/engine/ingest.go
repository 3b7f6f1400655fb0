package engine

import (
	"net"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
)

// rtpIngest forwards RTP packets from a local UDP port into a track.
// It starts on creation and stops when closed; packets that fail to
// parse are skipped.
type rtpIngest struct {
	conn  *net.UDPConn
	done  chan struct{}
	track *webrtc.TrackLocalStaticRTP
}

// newRTPIngest binds the port and starts the forward loop.
func newRTPIngest(port int, track *webrtc.TrackLocalStaticRTP) (*rtpIngest, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port})
	if err != nil {
		return nil, err
	}
	in := &rtpIngest{conn: conn, done: make(chan struct{}), track: track}
	go in.loop()
	return in, nil
}

// close stops the loop by closing the socket.
func (in *rtpIngest) close() {
	_ = in.conn.Close()
	<-in.done
}

// loop reads RTP packets and writes them to the track until the socket
// closes.
func (in *rtpIngest) loop() {
	defer close(in.done)
	buf := make([]byte, 1600)
	for {
		n, _, err := in.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		var pkt rtp.Packet
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			continue
		}
		_ = in.track.WriteRTP(&pkt)
	}
}
