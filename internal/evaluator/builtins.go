package evaluator

import (
	"fmt"
	"io"

	"github.com/funvibe/lifetime/internal/config"
)

// InstallBuiltins registers the native functions and constants every
// program starts with.
func InstallBuiltins(scope *Scope, out io.Writer) {
	h := scope.Heap()

	puts := h.NewNative(config.PutsFuncName, []string{config.PutsParamName}, func(frame *Scope) Value {
		b, ok := frame.Resolve(config.PutsParamName)
		if !ok {
			return UNIT
		}
		fmt.Fprintln(out, Render(b.Value))
		return UNIT
	})
	scope.Bind(config.PutsFuncName, puts, Owner)
	scope.Bind(config.UnitName, UNIT, Owner)
}
