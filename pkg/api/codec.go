// Package api defines the wire messages and procedure names of the ledger
// RPC services, and the JSON codec both servers and clients use for them.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName matches connect's built-in "json" codec so the usual
// application/json content type negotiates to this codec.
const CodecName = "json"

// Codec marshals plain Go structs with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body leaves msg unchanged.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithCodec is the option servers and clients must pass.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}

// MaxMessageBytes caps a request body. Ledger photos are sent inline as
// base64, so the limit is sized for one phone picture.
const MaxMessageBytes = 10 << 20

// HandlerOptions returns the codec, the read limit and interceptors for a
// service handler.
func HandlerOptions(interceptors ...connect.Interceptor) []connect.HandlerOption {
	return []connect.HandlerOption{
		WithCodec(),
		connect.WithReadMaxBytes(MaxMessageBytes),
		connect.WithInterceptors(interceptors...),
	}
}
