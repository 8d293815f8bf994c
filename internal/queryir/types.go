package queryir

// Query is a read query over the profile graph:
//
//	MATCH <pattern>
//	MATCH <pattern> ...
//	WHERE <predicate>
//	RETURN <return>
//	LIMIT <n>
type Query struct {
	Matches []Pattern // one MATCH clause each, in order
	Where   Predicate // nil = no WHERE clause
	Return  Return
	Limit   int // 0 = no LIMIT
}

// Pattern is one MATCH clause.
//
// This is a sealed interface - only types in this package implement it.
type Pattern interface {
	patternNode() // Marker method - seals interface to this package
}

// Predicate is a WHERE condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Value is a literal bound into a predicate.
//
// This is a sealed interface - only types in this package implement it.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// Node matches nodes with Label, bound to Alias:
//
//	(d:Double)
type Node struct {
	Alias string
	Label string
}

func (Node) patternNode() {}

// Path matches a directed one-hop relationship:
//
//	(d:Double)-[:OWNS]->(p_property:Property)
type Path struct {
	From Node
	Rel  string
	To   Node
}

func (Path) patternNode() {}

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpNe  Op = "<>"
)

// Valid reports whether o is one of the comparison operators above.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Compare is alias.field <op> value.
type Compare struct {
	Alias string
	Field string
	Op    Op
	Value Value
}

func (Compare) predicateNode() {}

// NotNull is alias.field IS NOT NULL.
type NotNull struct {
	Alias string
	Field string
}

func (NotNull) predicateNode() {}

// ContainsFold is a case-insensitive substring test:
//
//	toLower(alias.field) CONTAINS toLower(value)
type ContainsFold struct {
	Alias string
	Field string
	Value String
}

func (ContainsFold) predicateNode() {}

// And is a conjunction. Validate warns on an empty And.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. Validate warns on an empty Or.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Return is the projection of a single alias, either the nodes themselves
// or their count.
type Return struct {
	Alias    string
	Distinct bool
	Count    bool   // count(<alias>) instead of the nodes
	As       string // result column name, optional
}

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Float is a floating point literal.
type Float float64

func (Float) valueNode() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) valueNode() {}

// String is a string literal.
type String string

func (String) valueNode() {}

// Native returns the Go value to bind for v.
func Native(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case String:
		return string(val)
	}
	return nil
}
