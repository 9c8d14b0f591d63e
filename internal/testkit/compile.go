package testkit

import (
	"testing"

	"arrowc/internal/driver"
)

// Compile compiles src as a unit named name and fails t on any error. The
// closure invariants are checked on the result.
func Compile(t testing.TB, name, src string) *driver.Unit {
	t.Helper()
	u := driver.CompileSource(name, []byte(src), driver.Options{MaxDiagnostics: 100})
	if u.Failed() {
		for _, d := range u.Bag.Items() {
			t.Logf("%s", d.Error())
		}
		t.Fatalf("%s: %v", name, u.Err)
	}
	if err := CheckUnitInvariants(u.HIR, u.File); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return u
}
