// Package expression evaluates the comma-separated numeric equations that drive
// equation-shaped curves.
package expression

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	ErrNoExpression = errors.New("no expression set")
	ErrArity        = errors.New("unexpected number of results")
)

// Evaluator compiles one expression against named constants and variables.
// Variables are bound by pointer and read on every Evaluate call.
type Evaluator struct {
	text       string
	constants  map[string]float64
	variables  map[string]*float64
	env        map[string]any
	program    *vm.Program
	compileErr error
	stale      bool
	out        []float64
}

// New creates an evaluator with no expression.
func New() *Evaluator {
	return &Evaluator{
		constants: make(map[string]float64),
		variables: make(map[string]*float64),
		env:       make(map[string]any),
	}
}

func (e *Evaluator) DefineConstant(name string, value float64) {
	e.constants[name] = value
	e.env[name] = value
	e.stale = true
}

// DefineVariable binds name to ref. The value is sampled at each Evaluate.
func (e *Evaluator) DefineVariable(name string, ref *float64) {
	e.variables[name] = ref
	e.env[name] = *ref
	e.stale = true
}

// SetExpression compiles text. Results are separated by top-level commas.
func (e *Evaluator) SetExpression(text string) error {
	e.text = strings.TrimSpace(text)
	e.stale = true
	return e.compile()
}

func (e *Evaluator) compile() error {
	e.stale = false
	e.program = nil
	e.compileErr = nil
	if e.text == "" {
		e.compileErr = ErrNoExpression
		return e.compileErr
	}

	src := e.text
	if !strings.HasPrefix(src, "[") {
		src = "[" + src + "]"
	}

	opts := append([]expr.Option{expr.Env(e.env)}, mathFunctions()...)
	program, err := expr.Compile(src, opts...)
	if err != nil {
		e.compileErr = fmt.Errorf("compile expression %q: %w", e.text, err)
		return e.compileErr
	}
	e.program = program
	return nil
}

// Evaluate runs the expression and returns exactly arity values. The returned
// slice is reused by the next call.
func (e *Evaluator) Evaluate(arity int) ([]float64, error) {
	if e.stale {
		e.compile()
	}
	if e.compileErr != nil {
		return nil, e.compileErr
	}
	for name, ref := range e.variables {
		e.env[name] = *ref
	}

	res, err := expr.Run(e.program, e.env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", e.text, err)
	}
	items, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("evaluate expression %q: result is %T", e.text, res)
	}
	if len(items) != arity {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, arity, len(items))
	}

	e.out = e.out[:0]
	for i, item := range items {
		v, err := toFloat(item)
		if err != nil {
			return nil, fmt.Errorf("evaluate expression %q: result %d: %w", e.text, i, err)
		}
		e.out = append(e.out, v)
	}
	return e.out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

// --- Functions ---

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	})
}

func binary(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s: want 2 arguments, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x, y), nil
	})
}

func mathFunctions() []expr.Option {
	return []expr.Option{
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("asin", math.Asin),
		unary("acos", math.Acos),
		unary("atan", math.Atan),
		unary("sinh", math.Sinh),
		unary("cosh", math.Cosh),
		unary("tanh", math.Tanh),
		unary("exp", math.Exp),
		unary("ln", math.Log),
		unary("log", math.Log10),
		unary("log2", math.Log2),
		unary("log10", math.Log10),
		unary("sqrt", math.Sqrt),
		unary("rint", math.RoundToEven),
		unary("sign", func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return 0
		}),
		binary("atan2", math.Atan2),
		binary("pow", math.Pow),
		binary("mod", math.Mod),
	}
}
