// Wrap json library to control encoding.

package json

import (
	"bytes"

	"github.com/Velocidex/json"
	"github.com/Velocidex/ordereddict"
)

// MarshalJSONDict keeps the insertion order of an ordereddict so
// event records always serialize with the same key order.
func MarshalJSONDict(v interface{}, opts *json.EncOpts) ([]byte, error) {
	self, ok := v.(*ordereddict.Dict)
	if !ok {
		return nil, json.EncoderCallbackSkip
	}

	result := bytes.Buffer{}
	result.WriteByte('{')
	for idx, k := range self.Keys() {
		if idx > 0 {
			result.WriteByte(',')
		}

		kEscaped, err := json.MarshalWithOptions(k, opts)
		if err != nil {
			return nil, err
		}
		result.Write(kEscaped)
		result.WriteByte(':')

		value, _ := self.Get(k)
		vBytes, err := json.MarshalWithOptions(value, opts)
		if err != nil {
			result.WriteString("null")
			continue
		}
		result.Write(vBytes)
	}
	result.WriteByte('}')
	return result.Bytes(), nil
}

func init() {
	RegisterCustomEncoder(ordereddict.NewDict(), MarshalJSONDict)
}
