package churnwatchv1

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype used for ChurnService messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(JSONCodec{})
}

// JSONCodec marshals gRPC messages as JSON, so the service needs no
// protoc-generated message types.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Name() string {
	return CodecName
}

// CallOption forces the JSON codec on a client call.
func CallOption() grpc.CallOption {
	return grpc.ForceCodecCallOption{Codec: JSONCodec{}}
}
