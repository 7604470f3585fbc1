package encode

import (
	"log/slog"
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/ardnew/strux/lang"
)

// msgpackHandle returns a handle that writes map keys in sorted order and
// decodes strings and maps into plain Go values.
func msgpackHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.Canonical = true
	h.WriteExt = true
	h.RawToString = true
	h.MapType = reflect.TypeOf(map[string]any(nil))

	return h
}

func marshalMsgpack(v *lang.Value) ([]byte, error) {
	var out []byte

	if err := codec.NewEncoderBytes(&out, msgpackHandle()).Encode(v.Native()); err != nil {
		return nil, err
	}

	return out, nil
}

// UnmarshalMsgpack decodes a MessagePack document produced by [Marshal].
func UnmarshalMsgpack(data []byte) (*lang.Value, error) {
	var out any

	if err := codec.NewDecoderBytes(data, msgpackHandle()).Decode(&out); err != nil {
		return nil, ErrEncode.Wrap(err).With(slog.String("format", FormatMsgpack.String()))
	}

	return lang.FromNative(out)
}
