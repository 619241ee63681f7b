package crypto

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modexpCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seclink_modexp_ops",
		Help: "Total number of modular exponentiations.",
	})

	bytesEncryptedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seclink_bytes_encrypted",
		Help: "Total number of plaintext bytes encrypted.",
	})

	bytesDecryptedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seclink_bytes_decrypted",
		Help: "Total number of plaintext bytes recovered.",
	})
)
