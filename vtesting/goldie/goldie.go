// Golden file helpers. Run the tests with -update to rewrite the
// fixtures after an intended change in output.

package goldie

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Fixtures live in the fixtures/ directory next to the test.
func Assert(t *testing.T, filename string, golden []byte) {
	t.Helper()

	g := goldie.New(t)
	_ = g.WithFixtureDir("fixtures")
	g.Assert(t, filename, golden)
}
