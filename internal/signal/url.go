package signal

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	joinPath     = "/rtc"
	validatePath = "/validate"
)

// ConnectOptions carries optional per-join behavior. A nil options
// value means server defaults for everything.
type ConnectOptions struct {
	// AutoSubscribe, when set, tells the server whether to subscribe
	// this client to every published track automatically. Unset leaves
	// the server default in place.
	AutoSubscribe *bool
}

// JoinURL derives the websocket endpoint for an initial join from the
// base server address, the access token, and the options.
func JoinURL(baseURL, token string, opts *ConnectOptions) (string, error) {
	return deriveURL(baseURL, token, opts, joinPath, false, false)
}

// ReconnectURL derives the websocket endpoint for resuming an existing
// session. Identical to JoinURL plus the reconnect marker.
func ReconnectURL(baseURL, token string) (string, error) {
	return deriveURL(baseURL, token, nil, joinPath, true, false)
}

// ValidateURL derives the HTTP endpoint for the connection validation
// probe: same host and query parameters as JoinURL, validate path,
// socket scheme swapped for its HTTP counterpart.
func ValidateURL(baseURL, token string, opts *ConnectOptions) (string, error) {
	return deriveURL(baseURL, token, opts, validatePath, false, true)
}

// deriveURL builds an endpoint URL from the base address. The query
// parameters are identical across join, reconnect, and validate except
// for the reconnect marker.
func deriveURL(baseURL, token string, opts *ConnectOptions, path string, reconnect, probe bool) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q missing scheme or host", baseURL)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if probe {
		if u.Scheme == "wss" {
			u.Scheme = "https"
		} else {
			u.Scheme = "http"
		}
	}

	u.Path += path

	query := url.Values{}
	query.Set("access_token", token)
	query.Set("protocol", strconv.Itoa(ProtocolVersion))
	if opts != nil && opts.AutoSubscribe != nil {
		if *opts.AutoSubscribe {
			query.Set("auto_subscribe", "1")
		} else {
			query.Set("auto_subscribe", "0")
		}
	}
	if reconnect {
		query.Set("reconnect", "1")
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
