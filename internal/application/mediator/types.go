package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// Request is a query value, always passed by pointer (e.g. *GetSoilProfileQuery)
type Request interface{}

// Response is the handler result for a request; callers narrow it with SendAs
type Response interface{}

// RequestHandler serves exactly one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is one link of the dispatch chain
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware runs around every handler; the first one registered is outermost
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator routes queries from the HTTP and CLI adapters to application handlers
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

// SendAs dispatches request and narrows the response to R.
// A handler returning the wrong type is a wiring bug and surfaces as an error.
func SendAs[R any](ctx context.Context, m Mediator, request Request) (R, error) {
	var zero R
	response, err := m.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := response.(R)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected response type %T", RequestName(request), response)
	}
	return typed, nil
}
