package assert

import "github.com/oomph-ac/locomotion/oerror"

// IsTrue panics with the formatted message if ok is false. It guards internal invariants only,
// never conditions a caller is expected to recover from.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
