package rpcclient

import (
	"fmt"
	"strings"
)

// URLSchemePreference defines which URL scheme should be preferred when an RPC exposes both a
// websocket and an HTTP endpoint.
type URLSchemePreference int

const (
	// URLSchemePreferenceNone indicates no preference. The HTTP endpoint is used when available,
	// falling back to the websocket endpoint.
	URLSchemePreferenceNone URLSchemePreference = iota
	// URLSchemePreferenceWS prefers the websocket endpoint.
	URLSchemePreferenceWS
	// URLSchemePreferenceHTTP prefers the HTTP endpoint.
	URLSchemePreferenceHTTP
)

// URLSchemePreferenceFromString converts a string to a URLSchemePreference. An empty string is
// treated as no preference.
func URLSchemePreferenceFromString(s string) (URLSchemePreference, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return URLSchemePreferenceNone, nil
	case "ws", "wss":
		return URLSchemePreferenceWS, nil
	case "http", "https":
		return URLSchemePreferenceHTTP, nil
	default:
		return URLSchemePreferenceNone, fmt.Errorf("invalid URL scheme preference: %s", s)
	}
}

// RPC represents a single RPC endpoint configuration.
type RPC struct {
	// Name is a human readable identifier for the endpoint, used in logs.
	Name string
	// WSURL is the websocket endpoint of the RPC.
	WSURL string
	// HTTPURL is the HTTP endpoint of the RPC.
	HTTPURL string
	// PreferredURLScheme selects which of the two endpoints to dial.
	PreferredURLScheme URLSchemePreference
}

// ToEndpoint returns the endpoint to dial according to the preferred URL scheme. It returns an
// error if the RPC has no usable URL.
func (r RPC) ToEndpoint() (string, error) {
	switch {
	case r.PreferredURLScheme == URLSchemePreferenceWS && r.WSURL != "":
		return r.WSURL, nil
	case r.HTTPURL != "":
		return r.HTTPURL, nil
	case r.WSURL != "":
		return r.WSURL, nil
	default:
		return "", fmt.Errorf("no URL available for RPC %s", r.Name)
	}
}

// RPCConfig is the RPC configuration for a single chain. It contains the chain name and the list
// of RPC endpoints to dial for it.
type RPCConfig struct {
	// ChainName is the name of the chain the RPCs belong to.
	ChainName string
	// RPCs is the list of RPC endpoints.
	RPCs []RPC
}
