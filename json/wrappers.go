package json

import (
	"io"

	"github.com/Velocidex/json"
)

func Marshal(v interface{}) ([]byte, error) {
	opts := NewEncOpts()
	return json.MarshalWithOptions(v, opts)
}

func MustMarshalString(v interface{}) string {
	result, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(result)
}

// WriteJsonl writes a single record followed by a newline.
func WriteJsonl(out io.Writer, v interface{}) error {
	serialized, err := Marshal(v)
	if err != nil {
		return err
	}
	serialized = append(serialized, '\n')
	_, err = out.Write(serialized)
	return err
}

func Unmarshal(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}
