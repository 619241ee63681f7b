package console

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"www.velocidex.com/golang/seclink/crypto"
)

type NamedKey struct {
	Name string
	Key  crypto.KeyPair
}

// KeyTable renders key pairs. Private exponents are only shown when
// show_private is set.
func KeyTable(out io.Writer, keys []NamedKey, show_private bool) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{
		"Name", "Public Exponent", "Private Exponent", "Modulus", "Nonce Bound"})

	for _, item := range keys {
		private := "-"
		if show_private && item.Key.PrivateExponent != 0 {
			private = fmt.Sprintf("%d", item.Key.PrivateExponent)
		}

		table.Append([]string{
			item.Name,
			fmt.Sprintf("%d", item.Key.PublicExponent),
			private,
			fmt.Sprintf("%d", item.Key.Modulus),
			fmt.Sprintf("%d", crypto.ChainBound(item.Key.Modulus)),
		})
	}

	return table
}
