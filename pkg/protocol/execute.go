package protocol

// VersionString is the library version reported by GetVersion.
const VersionString = "0.1.0"

// StaticFunction is implemented by functions that need no session state and
// can therefore be evaluated synchronously, outside any actor.
type StaticFunction interface {
	Function
	Evaluate() Result
}

func (*Ping) Evaluate() Result { return &Pong{} }

func (*GetVersion) Evaluate() Result { return &Version{Value: VersionString} }

// Execute evaluates a function synchronously. Functions that require actor
// state yield a 400 error instead of being evaluated.
func Execute(fn Function) Result {
	if fn == nil {
		return NewError(400, "Function is empty")
	}
	static, ok := fn.(StaticFunction)
	if !ok {
		return NewError(400, "Function can't be executed synchronously")
	}
	return static.Evaluate()
}
