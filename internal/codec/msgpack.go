package codec

import "github.com/vmihailenco/msgpack/v5"

func init() {
	Register(msgpackCodec{})
}

// msgpackCodec encodes with the msgpack struct tags, which mirror the json
// field names so both formats share one schema.
type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

func (msgpackCodec) Binary() bool { return true }
