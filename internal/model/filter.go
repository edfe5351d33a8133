package model

// FilterOp is an operator in a provider-neutral screening filter.
type FilterOp string

const (
	OpAnd FilterOp = "and"
	OpOr  FilterOp = "or"
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpLt  FilterOp = "lt"
	OpGte FilterOp = "gte"
	OpLte FilterOp = "lte"
)

// Filter fields understood by every QuoteSource. Ratios are fractions.
const (
	FieldRegion        = "region"
	FieldExchange      = "exchange"
	FieldSector        = "sector"
	FieldPER           = "per"
	FieldPBR           = "pbr"
	FieldDividendYield = "dividend_yield"
	FieldROE           = "roe"
	FieldRevenueGrowth = "revenue_growth"
	FieldEPSGrowth     = "eps_growth"
	FieldMarketCap     = "market_cap"
)

// Filter is a node in a boolean filter tree. Logical nodes (and/or) carry
// Operands; comparison nodes carry Field and Value.
type Filter struct {
	Op       FilterOp
	Field    string
	Value    any
	Operands []Filter
}

// And combines operands with AND, flattening a single operand.
func And(operands ...Filter) Filter {
	if len(operands) == 1 {
		return operands[0]
	}
	return Filter{Op: OpAnd, Operands: operands}
}

// Or combines operands with OR, flattening a single operand.
func Or(operands ...Filter) Filter {
	if len(operands) == 1 {
		return operands[0]
	}
	return Filter{Op: OpOr, Operands: operands}
}

// Eq builds an equality comparison.
func Eq(field string, value any) Filter { return Filter{Op: OpEq, Field: field, Value: value} }

// Gt builds a greater-than comparison.
func Gt(field string, value float64) Filter { return Filter{Op: OpGt, Field: field, Value: value} }

// Lt builds a less-than comparison.
func Lt(field string, value float64) Filter { return Filter{Op: OpLt, Field: field, Value: value} }

// IsLogical reports whether the node combines other filters.
func (f Filter) IsLogical() bool { return f.Op == OpAnd || f.Op == OpOr }

// Walk visits f and all descendants depth-first.
func (f Filter) Walk(fn func(Filter)) {
	fn(f)
	for _, op := range f.Operands {
		op.Walk(fn)
	}
}
