// Package codec registers a JSON-based grpc-go wire codec under the
// name the runtime selects by default ("proto"), so RPCs defined by
// rpcapi/* travel as real HTTP/2 grpc-go calls without depending on
// protoc-generated marshaling. Digest computation never goes through
// this codec — it operates purely on pkg/artifact's canonical encoder.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is registered in place of grpc-go's built-in "proto" codec.
const Name = "proto"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec marshal: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return Name
}

// Register installs the codec. transport.New and transport.Dial call
// it before serving or dialing, and registering it again replaces the
// same entry; grpc-go looks codecs up by name per call,
// so registering under "proto" means no per-dial-option wiring is
// needed at call sites.
func Register() {
	encoding.RegisterCodec(jsonCodec{})
}
