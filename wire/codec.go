package wire

import (
	"bytes"
	"strconv"

	"www.velocidex.com/golang/seclink/constants"
)

// Encode renders units as space separated decimals followed by the
// line terminator.
func Encode(units []int64) []byte {
	result := make([]byte, 0, len(units)*6+2)
	for idx, unit := range units {
		if idx > 0 {
			result = append(result, ' ')
		}
		result = strconv.AppendInt(result, unit, 10)
	}
	return append(result, constants.LINE_TERMINATOR...)
}

// Decode parses a line produced by Encode. Runs of spaces and a
// trailing space are tolerated since older peers emit a space after
// every unit.
func Decode(line []byte) ([]int64, error) {
	line = TrimTerminator(line)

	result := []int64{}
	for _, token := range bytes.Split(line, []byte{' '}) {
		if len(token) == 0 {
			continue
		}

		value, err := strconv.ParseInt(string(token), 10, 64)
		if err != nil {
			return nil, malformed("invalid unit "+strconv.Quote(string(token)), err)
		}
		result = append(result, value)
	}
	return result, nil
}

// TrimTerminator removes a trailing "\r\n" or "\n".
func TrimTerminator(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}
