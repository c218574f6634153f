// Package policy turns user-facing policy names and expressions into
// record.Policy values.
package policy

import (
	"TapeSort/record"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

var ErrUnknownPolicy = errors.New("unknown sort policy")

var builtins = map[string]record.Policy{
	"asc":        record.AscendingByMax,
	"ascending":  record.AscendingByMax,
	"desc":       record.DescendingByMax,
	"descending": record.DescendingByMax,
	"size":       record.AscendingBySize,
}

// Lookup returns the built-in policy registered under name.
func Lookup(name string) (record.Policy, error) {
	p, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return p, nil
}

// Names lists the built-in policy names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve accepts either a built-in name or a CEL expression.
func Resolve(spec string) (record.Policy, error) {
	if p, err := Lookup(spec); err == nil {
		return p, nil
	}
	expr, err := Compile(spec)
	if err != nil {
		return nil, err
	}
	return expr.Policy(), nil
}

// ############################################# CEL #####################################################

// Expression is a compiled CEL policy. The expression sees both records as
// a and b (list of int) together with a_max, b_max, a_size and b_size, and
// must yield a bool.
type Expression struct {
	source string
	prg    cel.Program

	mu      sync.Mutex
	evalErr error
}

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("a", cel.ListType(cel.IntType)),
		cel.Variable("b", cel.ListType(cel.IntType)),
		cel.Variable("a_max", cel.IntType),
		cel.Variable("b_max", cel.IntType),
		cel.Variable("a_size", cel.IntType),
		cel.Variable("b_size", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	return env, nil
}

// Compile checks expr and prepares it for evaluation.
func Compile(expr string) (*Expression, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("policy %q yields %s, want bool", expr, ast.OutputType())
	}

	prg, err := env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(10000),
	)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}

	return &Expression{source: expr, prg: prg}, nil
}

func (e *Expression) String() string {
	return e.source
}

// Allows reports whether a may be immediately followed by b.
func (e *Expression) Allows(a, b record.Record) (bool, error) {
	out, _, err := e.prg.Eval(activation(a, b))
	if err != nil {
		return false, fmt.Errorf("CEL eval error: %w", err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("result not boolean")
	}
	return allowed, nil
}

// Policy adapts the expression to record.Policy. A failed evaluation counts
// as "not allowed before"; the first failure is kept for Err.
func (e *Expression) Policy() record.Policy {
	return func(a, b record.Record) bool {
		ok, err := e.Allows(a, b)
		if err != nil {
			e.mu.Lock()
			if e.evalErr == nil {
				e.evalErr = err
			}
			e.mu.Unlock()
			return false
		}
		return ok
	}
}

// Err returns the first evaluation failure seen through Policy, if any.
func (e *Expression) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evalErr
}

func activation(a, b record.Record) map[string]any {
	return map[string]any{
		"a":      values(a),
		"b":      values(b),
		"a_max":  maxOf(a),
		"b_max":  maxOf(b),
		"a_size": int64(a.Size()),
		"b_size": int64(b.Size()),
	}
}

func values(r record.Record) []int64 {
	vals := r.Values()
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}

// maxOf yields 0 for DNE so expressions never see an unbound variable.
func maxOf(r record.Record) int64 {
	m, err := r.Max()
	if err != nil {
		return 0
	}
	return int64(m)
}
