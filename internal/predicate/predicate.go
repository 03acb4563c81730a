// Package predicate executes user-authored row predicates. A predicate is
// the source text of a JavaScript function body that receives one binding,
// value, and returns a boolean, e.g.
//
//	if (value) {return value.includes('Computer Science')} else {return false}
//
// The author owns null checking: value is null when the record has no value
// for the predicate's field, and the evaluator does not pre-filter absent
// values.
//
// Fault containment is the contract that matters here: a predicate that
// fails to compile, throws, returns a non-boolean, or panics the
// interpreter is reported as a fault and treated as non-matching. No fault
// escapes Evaluate, and no evaluation can affect another record's
// evaluation: every call runs in a fresh runtime, so globals set by one
// run are gone before the next.
package predicate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
)

// ErrFault tags every evaluation failure returned by Evaluate.
var ErrFault = errors.New("predicate fault")

// Evaluator compiles and runs predicate expressions. Compilation is cached
// per expression source; the cache is safe for concurrent use.
//
// The zero value is not usable; call New.
type Evaluator struct {
	mu       sync.Mutex
	programs map[string]*compiled
}

type compiled struct {
	program *goja.Program
	err     error
}

// New returns an Evaluator with an empty compilation cache.
func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*compiled)}
}

// Evaluate runs expr against one field value and reports whether the row
// matches. The returned error is always nil or wraps ErrFault; a fault
// means matched=false. Callers may surface the fault as a warning but must
// not treat it as fatal.
func (e *Evaluator) Evaluate(expr string, value frontmatter.Value) (matched bool, err error) {
	// Last line of defense: the interpreter itself must never take the
	// host down.
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = fmt.Errorf("%w: runtime panic: %v", ErrFault, r)
		}
	}()

	program, compileErr := e.compile(expr)
	if compileErr != nil {
		return false, fmt.Errorf("%w: %v", ErrFault, compileErr)
	}

	vm := goja.New()

	fnValue, runErr := vm.RunProgram(program)
	if runErr != nil {
		return false, fmt.Errorf("%w: %v", ErrFault, runErr)
	}

	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return false, fmt.Errorf("%w: expression is not a function", ErrFault)
	}

	result, callErr := fn(goja.Undefined(), jsValue(vm, value))
	if callErr != nil {
		return false, fmt.Errorf("%w: %v", ErrFault, callErr)
	}

	boolean, ok := result.Export().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression returned %s, want boolean", ErrFault, result.String())
	}

	return boolean, nil
}

// compile wraps the function body and caches the result, including
// failures, so a bad expression costs one compile per pass instead of one
// per record.
func (e *Evaluator) compile(expr string) (*goja.Program, error) {
	e.mu.Lock()
	cached, ok := e.programs[expr]
	e.mu.Unlock()

	if ok {
		return cached.program, cached.err
	}

	src := "(function(value) {\n" + expr + "\n})"

	program, err := goja.Compile("predicate", src, false)
	if err != nil {
		err = fmt.Errorf("compile: %v", err)
	}

	e.mu.Lock()
	e.programs[expr] = &compiled{program: program, err: err}
	e.mu.Unlock()

	return program, err
}

// jsValue converts a metadata value into the argument the predicate sees:
// null for absent/null, string for text, number, boolean, or a fresh array
// of strings for lists. Lists are copied element by element so a predicate
// that mutates its argument cannot touch the record.
func jsValue(vm *goja.Runtime, value frontmatter.Value) goja.Value {
	switch value.Kind {
	case frontmatter.KindText:
		return vm.ToValue(value.Text)
	case frontmatter.KindNumber:
		return vm.ToValue(value.Number)
	case frontmatter.KindBool:
		return vm.ToValue(value.Bool)
	case frontmatter.KindList:
		items := make([]interface{}, len(value.List))
		for i, item := range value.List {
			items[i] = item
		}

		return vm.NewArray(items...)
	default:
		return goja.Null()
	}
}
