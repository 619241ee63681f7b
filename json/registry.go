package json

import (
	"sync"

	"github.com/Velocidex/json"
)

var (
	registry_mu sync.RWMutex
	encoders    []customEncoder
)

type customEncoder struct {
	sample   interface{}
	callback json.EncoderCallback
}

// RegisterCustomEncoder overrides how values of the sample's type are
// serialized. Call it from an init() function.
func RegisterCustomEncoder(sample interface{}, cb json.EncoderCallback) {
	registry_mu.Lock()
	defer registry_mu.Unlock()

	encoders = append(encoders, customEncoder{sample: sample, callback: cb})
}

// NewEncOpts returns encoder options carrying every registered
// encoder.
func NewEncOpts() *json.EncOpts {
	registry_mu.RLock()
	defer registry_mu.RUnlock()

	opts := json.NewEncOpts()
	for _, encoder := range encoders {
		opts.WithCallback(encoder.sample, encoder.callback)
	}
	return opts
}
