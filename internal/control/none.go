package control

// None never steers, brakes or paddles.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Decide(Observation) Intent { return Intent{} }
func (n *None) Reset()                    {}
func (n *None) Name() string              { return "none" }
