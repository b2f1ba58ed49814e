package client

import (
	"fmt"

	"github.com/wordsearch/wordsearch/internal/session"
)

// NewDialer returns the search stream dialer for the named transport.
func NewDialer(transport, baseURL, token string) (session.Dialer, error) {
	switch transport {
	case TransportSSE, "":
		return NewSSEDialer(baseURL, token), nil
	case TransportWebSocket:
		d, err := NewWSDialer(baseURL, token)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
