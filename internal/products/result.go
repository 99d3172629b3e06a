package products

// Result is the single response shape of the mutation operations: a success
// flag, a human-readable message and either a payload or an error kind.
type Result[T any] struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Item \"Bolt\" added successfully with ID PRD-3F9A1C2B."`
	Kind    Kind   `json:"kind,omitempty" example:"conflict"`
	Data    *T     `json:"data,omitempty"`
}

func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: &data}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Message: MessageOf(err), Kind: KindOf(err)}
}
