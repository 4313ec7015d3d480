package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

const (
	codecNameJSON            = "json"
	codecNameJSONCharsetUTF8 = codecNameJSON + "; charset=utf-8"
)

// Codec serialises the plain Go message structs in this package as JSON.
// It registers under the same names as Connect's built-in JSON codec, so
// clients speak the standard "application/json" Connect protocol.
type Codec struct {
	name string
}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (c Codec) Name() string { return c.name }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerCodecs() connect.HandlerOption {
	return connect.WithHandlerOptions(
		connect.WithCodec(Codec{name: codecNameJSON}),
		connect.WithCodec(Codec{name: codecNameJSONCharsetUTF8}),
	)
}

func clientCodec() connect.ClientOption {
	return connect.WithCodec(Codec{name: codecNameJSON})
}
