package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// Operator is a comparison operator found in a condition string.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>" // "!=" is read as "<>"
)

// conditionPattern finds the first operator/number pair. Two-character
// operators come first in the alternation so ">=" is not read as ">" and
// "<>" is not read as ">".
var conditionPattern = regexp.MustCompile(`(<>|!=|>=|<=|>|<|=)\s*(\d+(?:\.\d+)?)`)

// exactConditionPattern matches a string that is nothing but one
// operator/number pair.
var exactConditionPattern = regexp.MustCompile(`^\s*(<>|!=|>=|<=|>|<|=)\s*(\d+(?:\.\d+)?)\s*$`)

// Condition is the operator and numeric operand extracted from a raw
// condition string such as ">200000" or "age >= 40.5".
type Condition struct {
	Op       Operator
	Value    float64
	Integral bool // operand was written without a fractional part
}

// Bound is one side of a numeric range.
type Bound struct {
	Value    float64
	Integral bool
}

// Literal returns the bind value for b: int64 for integral operands,
// float64 otherwise.
func (b Bound) Literal() any {
	if b.Integral {
		return int64(b.Value)
	}
	return b.Value
}

// ParseCondition extracts the first operator and number from s for use as
// a range bound. It reports false when s carries none, when the first
// operator is a not-equal, which bounds nothing, or when the operator
// directly follows '<', '>' or '!' as in ">>40"; that is not an error.
// Boolean literals are not conditions.
func ParseCondition(s string) (Condition, bool) {
	loc := conditionPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return Condition{}, false
	}
	if start := loc[2]; start > 0 && strings.ContainsRune("<>!", rune(s[start-1])) {
		return Condition{}, false
	}
	c, ok := conditionFrom([]string{s[loc[0]:loc[1]], s[loc[2]:loc[3]], s[loc[4]:loc[5]]})
	if !ok || c.Op == OpNotEqual {
		return Condition{}, false
	}
	return c, true
}

// ParseExactCondition parses s only when the whole string, ignoring
// surrounding blanks, is a single operator and number such as ">= 40" or
// "<>40". Compound strings like ">=30 and <=40" report false.
func ParseExactCondition(s string) (Condition, bool) {
	return conditionFrom(exactConditionPattern.FindStringSubmatch(s))
}

func conditionFrom(m []string) (Condition, bool) {
	if m == nil {
		return Condition{}, false
	}

	op := Operator(m[1])
	if op == "!=" {
		op = OpNotEqual
	}
	num := m[2]
	integral := !strings.Contains(num, ".")
	if integral {
		if _, err := strconv.ParseInt(num, 10, 64); err != nil {
			integral = false
		}
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Condition{}, false
	}
	return Condition{Op: op, Value: value, Integral: integral}, true
}

// Bounds maps the condition to a range: ">" and ">=" set min, "<" and "<="
// set max, "=" sets both to the operand. "<>" sets neither.
func (c Condition) Bounds() (lo, hi *Bound) {
	b := &Bound{Value: c.Value, Integral: c.Integral}
	switch c.Op {
	case OpGreater, OpGreaterEqual:
		return b, nil
	case OpLess, OpLessEqual:
		return nil, b
	case OpEqual:
		eq := *b
		return b, &eq
	}
	return nil, nil
}

// Literal returns the operand as a bind value; see Bound.Literal.
func (c Condition) Literal() any {
	return Bound{Value: c.Value, Integral: c.Integral}.Literal()
}
