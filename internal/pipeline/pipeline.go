// Package pipeline implements the request authorization and validation
// chain every endpoint runs before its handler.
//
// Instead of nested middleware wrapping, each route declares an explicit
// ordered list of guards. A guard inspects the request, may bind a value
// (the authenticated user, the resolved category or item, the validated
// input) onto the request context, and may abort the chain with a taxonomy
// error. The runner executes guards strictly in declaration order and
// short-circuits on the first failure: later guards never run, the handler
// never runs, and the error reaches the response mapper untouched.
//
// Routes compose subsets of the guards, but the relative order is fixed:
//
//	Authenticate → ResolveCategory → ValidateInput → ResolveItem → CheckOwnership
//
// Ownership can only be checked after the owning resource is resolved, and
// item resolution is scoped to the already-resolved parent category.
package pipeline

import (
	"net/http"

	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/validation"
)

// Context is the typed request context guards write into and handlers read
// from. Each field is bound by exactly one guard; a field is only
// trustworthy on routes whose chain includes that guard.
type Context struct {
	// UserID of the authenticated caller, bound by Authenticate.
	UserID string

	// Category resolved from the path, bound by ResolveCategory.
	Category *model.Category

	// Item resolved from the path under Category, bound by ResolveItem.
	Item *model.Item

	// Input holds the validated body or query values, bound by
	// ValidateInput.
	Input validation.Values
}

// Guard is one step of the chain. A non-nil error aborts the request; the
// error is expected to already be an *apperror.AppError so it maps cleanly
// to a response.
type Guard func(r *http.Request, rc *Context) error

// HandlerFunc is the terminal step: the business handler, reached only when
// every guard has passed. The returned value is serialized as the 200
// response body.
type HandlerFunc func(r *http.Request, rc *Context) (any, error)

// Chain is an ordered guard list ending in a handler.
type Chain struct {
	guards  []Guard
	handler HandlerFunc
}

// NewChain builds a chain. Guards run in the order given.
func NewChain(handler HandlerFunc, guards ...Guard) *Chain {
	return &Chain{guards: guards, handler: handler}
}

// Run executes the chain for one request: a fresh Context, each guard in
// order, then the handler. The first guard error is returned as-is.
func (c *Chain) Run(r *http.Request) (any, error) {
	rc := &Context{}
	for _, guard := range c.guards {
		if err := guard(r, rc); err != nil {
			return nil, err
		}
	}
	return c.handler(r, rc)
}
