package domain

// UnknownErrorMessage is the single message transport failures are reduced to
const UnknownErrorMessage = "An unknown error occurred."

// ResultKind tags which variant a Result holds
type ResultKind int

const (
	KindLoading ResultKind = iota
	KindSuccess
	KindError
)

// String returns the tag name
func (k ResultKind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	}
	return "invalid"
}

// Result is the outcome of an async read: exactly one of Loading, Success or Error.
// The zero value is Loading with no payload.
type Result[T any] struct {
	kind    ResultKind
	payload *T
	message string
}

// Loading builds a Loading result; payload may be nil
func Loading[T any](payload *T) Result[T] {
	return Result[T]{kind: KindLoading, payload: payload}
}

// Success builds a Success result carrying payload
func Success[T any](payload T) Result[T] {
	return Result[T]{kind: KindSuccess, payload: &payload}
}

// Error builds an Error result. An empty message is replaced with
// UnknownErrorMessage so an Error always carries text.
func Error[T any](message string, payload *T) Result[T] {
	if message == "" {
		message = UnknownErrorMessage
	}
	return Result[T]{kind: KindError, payload: payload, message: message}
}

// Kind returns the active tag
func (r Result[T]) Kind() ResultKind { return r.kind }

// Payload returns the carried value and whether one is present
func (r Result[T]) Payload() (T, bool) {
	if r.payload == nil {
		var zero T
		return zero, false
	}
	return *r.payload, true
}

// Message returns the error text (empty unless Kind is KindError)
func (r Result[T]) Message() string { return r.message }

// Handle dispatches to exactly one callback based on the tag.
// All three callbacks are required; there is no fallthrough.
func (r Result[T]) Handle(
	onLoading func(payload *T),
	onSuccess func(payload T),
	onError func(message string, payload *T),
) {
	switch r.kind {
	case KindLoading:
		onLoading(r.payload)
	case KindSuccess:
		onSuccess(*r.payload)
	case KindError:
		onError(r.message, r.payload)
	default:
		panic("domain: result has invalid kind " + r.kind.String())
	}
}

// MatchResult folds a result into a value, requiring a branch per tag
func MatchResult[T, R any](
	r Result[T],
	onLoading func(payload *T) R,
	onSuccess func(payload T) R,
	onError func(message string, payload *T) R,
) R {
	var out R
	r.Handle(
		func(p *T) { out = onLoading(p) },
		func(p T) { out = onSuccess(p) },
		func(msg string, p *T) { out = onError(msg, p) },
	)
	return out
}
