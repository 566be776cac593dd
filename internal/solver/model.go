package solver

// Term is one weighted binary variable in a linear expression. Var is a
// 1-based variable index; Coef may be negative.
type Term struct {
	Var  int
	Coef int
}

// Linear is an integer linear expression over binary variables.
type Linear struct {
	Terms []Term
	Const int
}

// Op is a linear constraint relation.
type Op int

const (
	OpEq Op = iota
	OpGtEq
	OpLtEq
)

// Constraint requires Expr Op Bound to hold.
type Constraint struct {
	Expr  Linear
	Op    Op
	Bound int
}

// Model is a solver-agnostic integer model over binary variables: a set of
// linear constraints plus a gap expression whose absolute value is minimized.
// A Model is built once per optimization call and never shared.
type Model struct {
	numVars     int
	Constraints []Constraint

	// Gap is the signed difference expression; the objective is |Gap|.
	Gap Linear
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewVar allocates a fresh binary variable and returns its index.
func (m *Model) NewVar() int {
	m.numVars++
	return m.numVars
}

// NumVars returns the number of allocated variables.
func (m *Model) NumVars() int {
	return m.numVars
}

// Add appends the constraint Expr Op Bound.
func (m *Model) Add(expr Linear, op Op, bound int) {
	m.Constraints = append(m.Constraints, Constraint{Expr: expr, Op: op, Bound: bound})
}

// AddRange constrains lo <= Expr <= hi.
func (m *Model) AddRange(expr Linear, lo, hi int) {
	m.Add(expr, OpGtEq, lo)
	m.Add(expr, OpLtEq, hi)
}

// SetGapObjective declares the signed expression whose absolute value the
// solver minimizes.
func (m *Model) SetGapObjective(gap Linear) {
	m.Gap = gap
}

// Sum builds a unit-weight linear expression over the given variables.
func Sum(vars ...int) Linear {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return Linear{Terms: terms}
}

// Eval evaluates the expression under a variable assignment (indexed by
// variable-1).
func (l Linear) Eval(assignment []bool) int {
	total := l.Const
	for _, t := range l.Terms {
		if t.Var-1 < len(assignment) && assignment[t.Var-1] {
			total += t.Coef
		}
	}
	return total
}
