package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Evaluator is a small rule evaluator over wizard answers.
//
// Supported syntax:
//   - presence checks: `steuerminderung`, `!person_b_same_address`
//   - equality: `familienstand == "married"`, `count != 3`, `x == null`
//   - ordering on numbers and dates: `familienstand_date >= "2020-01-01"`,
//     `stmind_gem_haushalt_count > 0`, `since > extras.cutoff`
//   - composition: `a && (b || !c)`
//
// Identifiers are read from visibility.Context.Values (with dot-path
// traversal) and from visibility.Context.Extras via the `extras.` prefix.
// Compiled programs are cached per rule string.
type Evaluator struct {
	cache sync.Map
}

// New returns an Evaluator with an empty program cache.
func New() *Evaluator { return &Evaluator{} }

// Eval compiles (or reuses) rule and evaluates it against ctx. An empty rule
// always holds.
func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	program, err := e.compile(rule)
	if err != nil {
		if fieldPath != "" {
			return false, fmt.Errorf("%w (field %s)", err, fieldPath)
		}
		return false, err
	}
	return program.Eval(ctx)
}

func (e *Evaluator) compile(rule string) (*Program, error) {
	key := strings.TrimSpace(rule)
	if cached, ok := e.cache.Load(key); ok {
		return cached.(*Program), nil
	}
	program, err := Compile(key)
	if err != nil {
		return nil, err
	}
	e.cache.Store(key, program)
	return program, nil
}

// Program is a compiled rule.
type Program struct {
	source string
	root   exprNode
}

// Compile parses rule into a reusable Program.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	program := &Program{source: trimmed}
	if trimmed == "" {
		return program, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return program, nil
	}

	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	program.root = root
	return program, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(rule string) *Program {
	program, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return program
}

// String returns the source rule.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Eval evaluates the program against ctx.
func (p *Program) Eval(ctx visibility.Context) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	return p.root.eval(ctx)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', '<', '>':
		return true
	}
	return false
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch ch {
		case ' ', '\t', '\n', '\r':
			i++
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case '!':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
		case '=':
			if peek(1) != '=' {
				return nil, errors.New("visibility/expr: unexpected '='; use '=='")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
		case '<':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenLte, raw: "<="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenLt, raw: "<"})
		case '>':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenGte, raw: ">="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenGt, raw: ">"})
		case '&':
			if peek(1) != '&' {
				return nil, errors.New("visibility/expr: unexpected '&'; use '&&'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case '|':
			if peek(1) != '|' {
				return nil, errors.New("visibility/expr: unexpected '|'; use '||'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case '"', '\'':
			end := -1
			for j := i + 1; j < len(input); j++ {
				if input[j] == '\\' {
					j++
					continue
				}
				if input[j] == ch {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}

	return tokens, nil
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}

type exprNode interface {
	eval(ctx visibility.Context) (bool, error)
}

type exprOr struct{ left, right exprNode }

func (n exprOr) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type exprAnd struct{ left, right exprNode }

func (n exprAnd) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type exprNot struct{ inner exprNode }

func (n exprNot) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type operandKind int

const (
	operandString operandKind = iota
	operandNumber
	operandBool
	operandNull
	operandRef
)

type operand struct {
	kind operandKind
	raw  string
}

func (o operand) resolve(ctx visibility.Context) (any, bool) {
	switch o.kind {
	case operandRef:
		return lookup(ctx, o.raw)
	case operandNull:
		return nil, false
	default:
		return o.raw, true
	}
}

type exprCompare struct {
	identifier string
	op         tokenKind
	right      operand
}

func (n exprCompare) eval(ctx visibility.Context) (bool, error) {
	value, present := lookup(ctx, n.identifier)
	if !present {
		value = nil
	}

	switch n.op {
	case tokenEq, tokenNeq:
		equal, err := n.equal(value, ctx)
		if err != nil {
			return false, err
		}
		if n.op == tokenEq {
			return equal, nil
		}
		return !equal, nil
	default:
		if n.right.kind == operandNull || n.right.kind == operandBool {
			return false, fmt.Errorf("visibility/expr: operator %q needs a number or date operand", opString(n.op))
		}
		other, ok := n.right.resolve(ctx)
		if !ok || value == nil {
			return false, nil
		}
		cmp, ok := order(value, other)
		if !ok {
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return cmp < 0, nil
		case tokenLte:
			return cmp <= 0, nil
		case tokenGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	}
}

func (n exprCompare) equal(value any, ctx visibility.Context) (bool, error) {
	switch n.right.kind {
	case operandNull:
		return value == nil, nil
	case operandBool:
		got, _ := coerceBool(value)
		return got == (n.right.raw == "true"), nil
	case operandNumber:
		want, err := strconv.ParseFloat(n.right.raw, 64)
		if err != nil {
			return false, fmt.Errorf("visibility/expr: invalid number literal %q", n.right.raw)
		}
		got, ok := coerceNumber(value)
		return ok && got == want, nil
	case operandRef:
		other, ok := n.right.resolve(ctx)
		if !ok {
			return value == nil, nil
		}
		if cmp, ok := order(value, other); ok {
			return cmp == 0, nil
		}
		return coerceString(value) == coerceString(other), nil
	default:
		return coerceString(value) == n.right.raw, nil
	}
}

func opString(op tokenKind) string {
	switch op {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	default:
		return "?"
	}
}

// order compares two values as dates when both read as dates, otherwise as
// numbers. The boolean is false when neither interpretation fits.
func order(left, right any) (int, bool) {
	if l, ok := answers.ParseDate(left); ok {
		if r, ok := answers.ParseDate(right); ok {
			return compareTimes(l, r), true
		}
	}
	if l, ok := coerceNumber(left); ok {
		if r, ok := coerceNumber(right); ok {
			switch {
			case l < r:
				return -1, true
			case l > r:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func compareTimes(l, r time.Time) int {
	switch {
	case l.Before(r):
		return -1
	case l.After(r):
		return 1
	default:
		return 0
	}
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

var comparisonOps = []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range comparisonOps {
		if !stream.match(op) {
			continue
		}
		right, err := stream.consumeOperand()
		if err != nil {
			return nil, err
		}
		return exprCompare{identifier: ident.raw, op: op, right: right}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeOperand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("visibility/expr: missing operand")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return operand{kind: operandString, raw: tok.raw}, nil
	case tokenNumber:
		return operand{kind: operandNumber, raw: tok.raw}, nil
	case tokenBool:
		return operand{kind: operandBool, raw: tok.raw}, nil
	case tokenNull:
		return operand{kind: operandNull, raw: "null"}, nil
	case tokenIdentifier:
		if isExtrasPath(tok.raw) {
			return operand{kind: operandRef, raw: tok.raw}, nil
		}
		// Bare words compare as strings: `familienstand == married`.
		return operand{kind: operandString, raw: tok.raw}, nil
	default:
		return operand{}, fmt.Errorf("visibility/expr: expected operand, got %q", tok.raw)
	}
}

func isExtrasPath(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "extras.")
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if isExtrasPath(key) {
		return lookupMap(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, v != nil
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		typed, ok := current.(map[string]any)
		if !ok || part == "" {
			return nil, false
		}
		next, ok := typed[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, current != nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	if b, ok := answers.ParseBool(value); ok {
		return b, true
	}
	return truthy(value), true
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if d, ok := answers.ParseDecimal(v); ok {
			f, err := strconv.ParseFloat(d.String(), 64)
			return f, err == nil
		}
		return 0, false
	default:
		if d, ok := answers.ParseDecimal(value); ok {
			f, err := strconv.ParseFloat(d.String(), 64)
			return f, err == nil
		}
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
