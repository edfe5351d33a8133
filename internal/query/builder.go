package query

import (
	"ScreenSentinel/internal/market"
	"ScreenSentinel/internal/model"
)

// BuildQuery translates criteria into a provider-neutral filter scoped to
// region. Region and exchange lists are OR-ed; the individual criteria are
// AND-ed. An explicit exchange or sector overrides the one in criteria.
//
// A multi-region market without an explicit exchange is additionally limited
// to its own exchanges. MinTotalShareholderReturn is not expressible as a
// provider filter and is left to the caller.
func BuildQuery(criteria model.ScreeningCriteria, region, exchange, sector string) model.Filter {
	m := market.Resolve(region)

	clauses := []model.Filter{regionClause(m)}

	if exchange == "" {
		exchange = criteria.Exchange
	}
	switch {
	case exchange != "":
		clauses = append(clauses, model.Eq(model.FieldExchange, exchange))
	case m.MultiRegion() && len(m.Exchanges) > 0:
		clauses = append(clauses, anyOf(model.FieldExchange, m.Exchanges))
	}

	if sector == "" {
		sector = criteria.Sector
	}
	if sector != "" {
		clauses = append(clauses, model.Eq(model.FieldSector, sector))
	}

	if criteria.MaxPER != nil {
		// negative earnings would otherwise pass a maximum
		clauses = append(clauses,
			model.Gt(model.FieldPER, 0),
			model.Lt(model.FieldPER, *criteria.MaxPER))
	}
	if criteria.MaxPBR != nil {
		clauses = append(clauses, model.Lt(model.FieldPBR, *criteria.MaxPBR))
	}
	minimums := []struct {
		field string
		value *float64
	}{
		{model.FieldDividendYield, criteria.MinDividendYield},
		{model.FieldROE, criteria.MinROE},
		{model.FieldRevenueGrowth, criteria.MinRevenueGrowth},
		{model.FieldEPSGrowth, criteria.MinEarningsGrowth},
		{model.FieldMarketCap, criteria.MinMarketCap},
	}
	for _, c := range minimums {
		if c.value != nil {
			clauses = append(clauses, model.Gt(c.field, *c.value))
		}
	}

	return model.And(clauses...)
}

func regionClause(m market.Market) model.Filter {
	return anyOf(model.FieldRegion, m.Regions)
}

func anyOf(field string, values []string) model.Filter {
	eqs := make([]model.Filter, len(values))
	for i, v := range values {
		eqs[i] = model.Eq(field, v)
	}
	return model.Or(eqs...)
}
