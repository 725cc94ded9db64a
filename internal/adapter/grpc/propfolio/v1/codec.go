// Package propfoliov1 declares the propfolio.v1 PropertyMetricsService:
// its request and response messages, the service descriptor, and a client.
// Messages travel as JSON using the codec registered under CodecName.
package propfoliov1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the service messages are encoded with
// (content-type "application/grpc+json")
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
