package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/warelog/handheld-go/internal/domain/task"
)

// Visibility expressions are side-effect-free boolean predicates over the
// wizard state, written against a fixed variable set:
//
//	step.<id>.resolved      bool: a value is stored for the step
//	step.<id>.error         bool: an error is attached to the step
//	step.<id>.value         string: identity of the stored value ("" if none)
//	current.id              string: active step id
//	current.field           string: active step field type
//	task.type               string: task type (RECEIPT, PICKING, ...)
//	action.template         string: action template code
//	planned.product         bool: the plan names a product
//	planned.bin             bool: the plan names a source bin
//	planned.pallet          bool: the plan names a source pallet
//	planned.placement_bin   bool: the plan names a target bin
//	planned.placement_pallet bool: the plan names a target pallet
//	planned.quantity        number: planned quantity (0 if none)
//
// Operators: and, or, not, ==, !=, parentheses. Literals: 'string',
// "string", bare numbers, true, false. Keywords are case-insensitive.
//
// A blank expression is visible. A malformed expression or an unknown
// variable degrades to visible and is reported through the evaluator's
// warn hook; a broken expression must never hide a step silently.

// EvalContext is the read-only data an expression can see
type EvalContext struct {
	State        State
	Planned      task.PlannedReference
	TaskType     string
	TemplateCode string
}

// Evaluator evaluates visibility expressions and derives step indices.
// The zero value is usable; warnings are dropped unless a hook is set.
type Evaluator struct {
	warn func(message string)
}

// NewEvaluator creates an evaluator reporting configuration warnings
// through the given hook (may be nil)
func NewEvaluator(warn func(message string)) *Evaluator {
	return &Evaluator{warn: warn}
}

func (e *Evaluator) warnf(format string, args ...interface{}) {
	if e != nil && e.warn != nil {
		e.warn(fmt.Sprintf(format, args...))
	}
}

// Evaluate returns the expression's value against the context. Blank
// expressions and evaluation failures both yield true.
func (e *Evaluator) Evaluate(expression string, ctx EvalContext) bool {
	if strings.TrimSpace(expression) == "" {
		return true
	}

	node, err := ParseExpression(expression)
	if err != nil {
		e.warnf("malformed visibility expression %q: %v (defaulting to visible)", expression, err)
		return true
	}

	result, err := node.eval(ctx)
	if err != nil {
		e.warnf("visibility expression %q failed: %v (defaulting to visible)", expression, err)
		return true
	}

	visible, err := result.asBool()
	if err != nil {
		e.warnf("visibility expression %q is not boolean: %v (defaulting to visible)", expression, err)
		return true
	}
	return visible
}

// StepVisible evaluates one step's visibility in the given context
func (e *Evaluator) StepVisible(step StepTemplate, ctx EvalContext) bool {
	return e.Evaluate(step.Visibility, ctx)
}

// FirstVisibleIndex returns the index of the first visible step, or
// len(steps) when every step is hidden
func (e *Evaluator) FirstVisibleIndex(ctx EvalContext) int {
	return e.NextVisibleIndex(ctx, -1)
}

// NextVisibleIndex returns the first visible index strictly after from,
// or len(steps) when none remains
func (e *Evaluator) NextVisibleIndex(ctx EvalContext, from int) int {
	steps := ctx.State.Steps
	for i := from + 1; i < len(steps); i++ {
		if e.StepVisible(steps[i], ctx) {
			return i
		}
	}
	return len(steps)
}

// PreviousVisibleIndex returns the last visible index strictly before
// from, or -1 when none exists
func (e *Evaluator) PreviousVisibleIndex(ctx EvalContext, from int) int {
	steps := ctx.State.Steps
	for i := from - 1; i >= 0; i-- {
		if i < len(steps) && e.StepVisible(steps[i], ctx) {
			return i
		}
	}
	return -1
}

// --- AST ---

type exprValue struct {
	kind kindTag // boolKind, strKind, numKind
	b    bool
	s    string
	n    float64
}

type kindTag int

const (
	boolKind kindTag = iota
	strKind
	numKind
)

func boolValue(b bool) exprValue   { return exprValue{kind: boolKind, b: b} }
func strValue(s string) exprValue  { return exprValue{kind: strKind, s: s} }
func numValue(n float64) exprValue { return exprValue{kind: numKind, n: n} }

func (v exprValue) asBool() (bool, error) {
	switch v.kind {
	case boolKind:
		return v.b, nil
	case strKind:
		// A bare string is not a predicate; require an explicit comparison
		return false, fmt.Errorf("string value %q in boolean position, compare it with == or !=", v.s)
	case numKind:
		return v.n != 0, nil
	}
	return false, fmt.Errorf("unknown value kind")
}

func (v exprValue) equals(other exprValue) bool {
	if v.kind == numKind || other.kind == numKind {
		a, aok := v.asNumber()
		b, bok := other.asNumber()
		if aok && bok {
			return a == b
		}
	}
	if v.kind == boolKind || other.kind == boolKind {
		a, _ := v.asBool()
		b, _ := other.asBool()
		return a == b
	}
	return v.s == other.s
}

func (v exprValue) asNumber() (float64, bool) {
	switch v.kind {
	case numKind:
		return v.n, true
	case strKind:
		n, err := strconv.ParseFloat(v.s, 64)
		return n, err == nil
	}
	return 0, false
}

// Expr is a parsed visibility expression node
type Expr interface {
	eval(ctx EvalContext) (exprValue, error)
}

type binaryExpr struct {
	op          string // "and", "or", "==", "!="
	left, right Expr
}

func (n *binaryExpr) eval(ctx EvalContext) (exprValue, error) {
	left, err := n.left.eval(ctx)
	if err != nil {
		return exprValue{}, err
	}

	switch n.op {
	case "and", "or":
		lb, err := left.asBool()
		if err != nil {
			return exprValue{}, err
		}
		// Short-circuit
		if n.op == "and" && !lb {
			return boolValue(false), nil
		}
		if n.op == "or" && lb {
			return boolValue(true), nil
		}
		right, err := n.right.eval(ctx)
		if err != nil {
			return exprValue{}, err
		}
		rb, err := right.asBool()
		if err != nil {
			return exprValue{}, err
		}
		return boolValue(rb), nil
	}

	right, err := n.right.eval(ctx)
	if err != nil {
		return exprValue{}, err
	}
	switch n.op {
	case "==":
		return boolValue(left.equals(right)), nil
	case "!=":
		return boolValue(!left.equals(right)), nil
	}
	return exprValue{}, fmt.Errorf("unknown operator %q", n.op)
}

type notExpr struct {
	inner Expr
}

func (n *notExpr) eval(ctx EvalContext) (exprValue, error) {
	v, err := n.inner.eval(ctx)
	if err != nil {
		return exprValue{}, err
	}
	b, err := v.asBool()
	if err != nil {
		return exprValue{}, err
	}
	return boolValue(!b), nil
}

type literalExpr struct {
	value exprValue
}

func (n *literalExpr) eval(EvalContext) (exprValue, error) {
	return n.value, nil
}

type variableExpr struct {
	path string
}

func (n *variableExpr) eval(ctx EvalContext) (exprValue, error) {
	return resolveVariable(n.path, ctx)
}

func resolveVariable(path string, ctx EvalContext) (exprValue, error) {
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "step":
		if len(parts) != 3 {
			return exprValue{}, fmt.Errorf("step variable must be step.<id>.<attr>: %q", path)
		}
		stepID, attr := parts[1], parts[2]
		if _, ok := ctx.State.StepByID(stepID); !ok {
			return exprValue{}, fmt.Errorf("unknown step id %q", stepID)
		}
		value, resolved := ctx.State.ResultFor(stepID)
		switch attr {
		case "resolved":
			return boolValue(resolved), nil
		case "error":
			return boolValue(ctx.State.StepErrors[stepID] != ""), nil
		case "value":
			if !resolved {
				return strValue(""), nil
			}
			return strValue(value.Identity()), nil
		}
		return exprValue{}, fmt.Errorf("unknown step attribute %q", attr)

	case "current":
		step, ok := ctx.State.CurrentStep()
		if !ok {
			return strValue(""), nil
		}
		switch strings.Join(parts[1:], ".") {
		case "id":
			return strValue(step.ID), nil
		case "field":
			return strValue(step.Field.String()), nil
		}
		return exprValue{}, fmt.Errorf("unknown variable %q", path)

	case "task":
		if strings.Join(parts[1:], ".") == "type" {
			return strValue(ctx.TaskType), nil
		}
		return exprValue{}, fmt.Errorf("unknown variable %q", path)

	case "action":
		if strings.Join(parts[1:], ".") == "template" {
			return strValue(ctx.TemplateCode), nil
		}
		return exprValue{}, fmt.Errorf("unknown variable %q", path)

	case "planned":
		switch strings.Join(parts[1:], ".") {
		case "product":
			return boolValue(ctx.Planned.Product != nil), nil
		case "bin":
			return boolValue(!ctx.Planned.Bin.IsZero()), nil
		case "pallet":
			return boolValue(!ctx.Planned.Pallet.IsZero()), nil
		case "placement_bin":
			return boolValue(!ctx.Planned.PlacementBin.IsZero()), nil
		case "placement_pallet":
			return boolValue(!ctx.Planned.PlacementPallet.IsZero()), nil
		case "quantity":
			if !ctx.Planned.HasQuantity {
				return numValue(0), nil
			}
			return numValue(ctx.Planned.Quantity.Amount()), nil
		}
		return exprValue{}, fmt.Errorf("unknown variable %q", path)
	}

	return exprValue{}, fmt.Errorf("unknown variable %q", path)
}

// --- parser ---

type token struct {
	kind tokenKind
	text string
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokOp // == != ( )
	tokEOF
)

// ParseExpression parses a visibility expression into its AST. Exposed so
// template linting can report malformed expressions at authoring time.
func ParseExpression(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input %q", p.peek().text)
	}
	return node, nil
}

func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')':
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i++
		case r == '=' || r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
			}
			tokens = append(tokens, token{kind: tokOp, text: string(r) + "="})
			i += 2
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string starting at position %d", i)
			}
			tokens = append(tokens, token{kind: tokString, text: string(runes[i+1 : j])})
			i = j + 1
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "not") {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notExpr{inner: inner}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokOp && (p.peek().text == "==" || p.peek().text == "!=") {
		op := p.next().text
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &binaryExpr{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokOp:
		if t.text == "(" {
			p.next()
			inner, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if p.peek().text != ")" {
				return nil, fmt.Errorf("expected closing parenthesis, got %q", p.peek().text)
			}
			p.next()
			return inner, nil
		}
		return nil, fmt.Errorf("unexpected token %q", t.text)
	case tokString:
		p.next()
		return &literalExpr{value: strValue(t.text)}, nil
	case tokNumber:
		p.next()
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.text)
		}
		return &literalExpr{value: numValue(n)}, nil
	case tokIdent:
		p.next()
		switch strings.ToLower(t.text) {
		case "true":
			return &literalExpr{value: boolValue(true)}, nil
		case "false":
			return &literalExpr{value: boolValue(false)}, nil
		case "and", "or", "not":
			return nil, fmt.Errorf("unexpected keyword %q", t.text)
		}
		return &variableExpr{path: t.text}, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected token %q", t.text)
}
