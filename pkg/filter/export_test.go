package filter

func NewEngineWithHeight(policy RingPolicy, height int) *Engine {
	e := NewEngine(policy)
	e.height = height
	return e
}
