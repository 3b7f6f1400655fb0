package signal

import (
	"net/url"
	"strings"
	"testing"
)

// TestJoinURL_Derivation verifies scheme normalization, path, and
// query parameters of the join endpoint.
func TestJoinURL_Derivation(t *testing.T) {
	auto := true
	got, err := JoinURL("https://media.example.com", "tok123", &ConnectOptions{AutoSubscribe: &auto})
	if err != nil {
		t.Fatalf("JoinURL failed: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse derived url: %v", err)
	}
	if u.Scheme != "wss" || u.Host != "media.example.com" || u.Path != "/rtc" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	q := u.Query()
	if q.Get("access_token") != "tok123" {
		t.Fatalf("missing access_token in %s", got)
	}
	if q.Get("protocol") == "" {
		t.Fatalf("missing protocol in %s", got)
	}
	if q.Get("auto_subscribe") != "1" {
		t.Fatalf("expected auto_subscribe=1 in %s", got)
	}
}

// TestJoinURL_AutoSubscribeOmitted verifies unset options leave the
// flag out entirely.
func TestJoinURL_AutoSubscribeOmitted(t *testing.T) {
	got, err := JoinURL("ws://media.example.com", "tok", nil)
	if err != nil {
		t.Fatalf("JoinURL failed: %v", err)
	}
	if strings.Contains(got, "auto_subscribe") {
		t.Fatalf("auto_subscribe should be absent: %s", got)
	}
	auto := false
	got, err = JoinURL("ws://media.example.com", "tok", &ConnectOptions{AutoSubscribe: &auto})
	if err != nil {
		t.Fatalf("JoinURL failed: %v", err)
	}
	if !strings.Contains(got, "auto_subscribe=0") {
		t.Fatalf("expected auto_subscribe=0: %s", got)
	}
}

// TestValidateURL_MatchesJoin verifies the join and validate endpoints
// differ only in scheme and path suffix and carry identical queries.
func TestValidateURL_MatchesJoin(t *testing.T) {
	auto := true
	opts := &ConnectOptions{AutoSubscribe: &auto}
	join, err := JoinURL("wss://media.example.com", "tok", opts)
	if err != nil {
		t.Fatalf("JoinURL failed: %v", err)
	}
	validate, err := ValidateURL("wss://media.example.com", "tok", opts)
	if err != nil {
		t.Fatalf("ValidateURL failed: %v", err)
	}
	ju, _ := url.Parse(join)
	vu, _ := url.Parse(validate)
	if ju.Scheme != "wss" || vu.Scheme != "https" {
		t.Fatalf("unexpected schemes: %s %s", ju.Scheme, vu.Scheme)
	}
	if ju.Host != vu.Host {
		t.Fatalf("hosts differ: %s %s", ju.Host, vu.Host)
	}
	if ju.RawQuery != vu.RawQuery {
		t.Fatalf("queries differ: %s %s", ju.RawQuery, vu.RawQuery)
	}
	if vu.Path != "/validate" {
		t.Fatalf("unexpected validate path: %s", vu.Path)
	}
}

// TestReconnectURL_Marker verifies the reconnect endpoint is the join
// endpoint plus the reconnect flag.
func TestReconnectURL_Marker(t *testing.T) {
	got, err := ReconnectURL("wss://media.example.com", "tok")
	if err != nil {
		t.Fatalf("ReconnectURL failed: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("reconnect") != "1" {
		t.Fatalf("missing reconnect marker: %s", got)
	}
	if u.Query().Get("access_token") != "tok" {
		t.Fatalf("missing access_token: %s", got)
	}
}

// TestJoinURL_Invalid verifies bad base endpoints are rejected.
func TestJoinURL_Invalid(t *testing.T) {
	for _, base := range []string{"", "media.example.com", "ftp://media.example.com", "://bad"} {
		if _, err := JoinURL(base, "tok", nil); err == nil {
			t.Fatalf("expected error for base %q", base)
		}
	}
}
