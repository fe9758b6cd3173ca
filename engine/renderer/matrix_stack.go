package renderer

import "github.com/Carmen-Shannon/oxy-recursion/common"

// matrixStack is the model-view matrix stack. It always holds at least one matrix.
type matrixStack struct {
	stack [][16]float32
}

func newMatrixStack() *matrixStack {
	m := &matrixStack{stack: make([][16]float32, 1, 8)}
	common.Identity(m.stack[0][:])
	return m
}

func (m *matrixStack) top() *[16]float32 {
	return &m.stack[len(m.stack)-1]
}

func (m *matrixStack) push() {
	m.stack = append(m.stack, *m.top())
}

// pop discards the top matrix. It reports false, leaving the stack unchanged, when only the base matrix is left.
func (m *matrixStack) pop() bool {
	if len(m.stack) == 1 {
		return false
	}
	m.stack = m.stack[:len(m.stack)-1]
	return true
}

func (m *matrixStack) identity() {
	common.Identity(m.top()[:])
}

func (m *matrixStack) translate(x, y, z float32) {
	common.Translate4(m.top()[:], x, y, z)
}

func (m *matrixStack) scale(x, y, z float32) {
	common.Scale4(m.top()[:], x, y, z)
}

func (m *matrixStack) rotate(x, y, z, radians float32) {
	common.RotateAxis4(m.top()[:], x, y, z, radians)
}

func (m *matrixStack) depth() int {
	return len(m.stack)
}

// reset drops every pushed matrix and resets the base to identity.
func (m *matrixStack) reset() {
	m.stack = m.stack[:1]
	common.Identity(m.stack[0][:])
}
