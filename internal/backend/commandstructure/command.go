package commandstructure

// Command defines one stage of the sky map pipeline. It receives the state
// produced by the previous stage and returns the state for the next one.
type Command[T any] interface {
	Name() string
	Execute(state T) (T, error)
}
