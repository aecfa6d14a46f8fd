package secfetch

import "context"

type ctxKey string

const decisionKey ctxKey = "secfetch_decision_ctx"

// contextWithDecision returns a derived context that stores the decision
// computed for the current request.
func contextWithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionKey, d)
}

// DecisionFromContext returns the decision the middleware computed for the
// current request, if present. Handlers behind the middleware can use it to
// audit Report verdicts that were forwarded.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	v := ctx.Value(decisionKey)
	if v == nil {
		return Decision{}, false
	}
	d, ok := v.(Decision)
	return d, ok
}
