package masstransit

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Serializer 消息体编解码由上层注入，核心不解析原始帧
type Serializer interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}

var _ Serializer = (*msgpackSerializer)(nil)

type msgpackSerializer struct{}

func NewMsgpackSerializer() Serializer {
	return &msgpackSerializer{}
}

func (*msgpackSerializer) ContentType() string {
	return "application/x-msgpack"
}

func (*msgpackSerializer) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (*msgpackSerializer) Unmarshal(b []byte, v any) error {
	return msgpack.Unmarshal(b, v)
}
