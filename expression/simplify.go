package expression

// Simplify performs a pure, bottom-up rewrite of the tree using
// identity, range, and constant-folding rules. It never observes usage
// counters and never mutates its receiver; the result is comparable to
// calling Simplify again (idempotent after at most three passes).
func (e *Expression) Simplify() *Expression {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case KindIf:
		if e.Then.Equal(e.Otherwise) {
			return e.Then.Simplify()
		}
		if e.Condition.Kind == KindConstantBoolean {
			if e.Condition.Bool {
				return e.Then.Simplify()
			}
			return e.Otherwise.Simplify()
		}
		return &Expression{
			Kind:      KindIf,
			Condition: e.Condition.Simplify(),
			Then:      e.Then.Simplify(),
			Otherwise: e.Otherwise.Simplify(),
		}

	case KindEquals:
		if e.Left.Equal(e.Right) {
			return &Expression{Kind: KindConstantBoolean, Bool: true}
		}
		if lr, lok := e.Left.GetRange(); lok {
			if rr, rok := e.Right.GetRange(); rok && !rangesOverlap(lr, rr) {
				return &Expression{Kind: KindConstantBoolean, Bool: false}
			}
		}
		return &Expression{Kind: KindEquals, Left: e.Left.Simplify(), Right: e.Right.Simplify()}

	case KindGreaterThan:
		// Quirk: the engine evaluates strict `>` but simplifies
		// structural equality of the two sides to `true`. This mirrors
		// the `>=` pretty-print and must not be "fixed" — evolved bots
		// depend on the exact (inconsistent) behavior.
		if e.Left.Equal(e.Right) {
			return &Expression{Kind: KindConstantBoolean, Bool: true}
		}
		if lr, lok := e.Left.GetRange(); lok {
			if rr, rok := e.Right.GetRange(); rok {
				if lr.Lo >= rr.Hi {
					return &Expression{Kind: KindConstantBoolean, Bool: true}
				}
				if rr.Lo >= lr.Hi {
					return &Expression{Kind: KindConstantBoolean, Bool: false}
				}
			}
		}
		if e.Left.Kind == KindConstantNumber && e.Right.Kind == KindConstantNumber {
			return &Expression{Kind: KindConstantBoolean, Bool: e.Left.Number > e.Right.Number}
		}
		return &Expression{Kind: KindGreaterThan, Left: e.Left.Simplify(), Right: e.Right.Simplify()}

	default:
		return e.Clone()
	}
}

func rangesOverlap(a, b valueRange) bool {
	return a.Lo < b.Hi && b.Lo < a.Hi
}

// Crossover combines two trees under a fresh random condition:
// If{cond: freshBoolean(), then: a, otherwise: b}. The result's static
// type equals a's type (and, by construction, b's), and it evaluates to
// either a's or b's result depending on the fresh condition.
func Crossover(a, b *Expression, rng *Rand) *Expression {
	return &Expression{Kind: KindIf, Condition: freshBoolean(rng), Then: a, Otherwise: b}
}

// CrossoverWith is the method form of Crossover.
func (e *Expression) CrossoverWith(other *Expression, rng *Rand) *Expression {
	return Crossover(e, other, rng)
}
