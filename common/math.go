package common

import "math"

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Ortho creates an orthographic projection matrix mapping the box [left,right] x [top,bottom] x [near,far]
// onto WebGPU clip space. X maps to [-1, 1], Y maps top to +1 and bottom to -1 so that pixel rows grow
// downwards, and Z maps to [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extent
//   - top, bottom: vertical extent (top is the row at y = +1 in clip space)
//   - near, far: depth extent
func Ortho(out []float32, left, right, top, bottom, near, far float32) {
	Identity(out)
	if right == left || top == bottom || far == near {
		return
	}

	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (far - near)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = -near / (far - near)
}

// Translate4 right-multiplies m by a translation matrix, so the translation applies to vertices
// before any transform already held in m.
//
// Parameters:
//   - m: the matrix to modify in place (16 elements, column-major)
//   - x, y, z: translation along each axis
func Translate4(m []float32, x, y, z float32) {
	var t [16]float32
	Identity(t[:])
	t[12], t[13], t[14] = x, y, z
	Mul4(m, m, t[:])
}

// Scale4 right-multiplies m by a scale matrix.
//
// Parameters:
//   - m: the matrix to modify in place (16 elements, column-major)
//   - x, y, z: scale factors along each axis
func Scale4(m []float32, x, y, z float32) {
	var s [16]float32
	Identity(s[:])
	s[0], s[5], s[10] = x, y, z
	Mul4(m, m, s[:])
}

// RotateAxis4 right-multiplies m by a rotation of angle radians about the axis (x, y, z).
// The axis is normalized; a zero axis leaves m unchanged.
//
// Parameters:
//   - m: the matrix to modify in place (16 elements, column-major)
//   - x, y, z: the rotation axis
//   - angle: the rotation angle in radians
func RotateAxis4(m []float32, x, y, z, angle float32) {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return
	}
	x, y, z = x/l, y/l, z/l

	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	ic := 1 - c

	var r [16]float32
	r[0] = x*x*ic + c
	r[1] = y*x*ic + z*s
	r[2] = z*x*ic - y*s

	r[4] = x*y*ic - z*s
	r[5] = y*y*ic + c
	r[6] = z*y*ic + x*s

	r[8] = x*z*ic + y*s
	r[9] = y*z*ic - x*s
	r[10] = z*z*ic + c

	r[15] = 1
	Mul4(m, m, r[:])
}

// TransformPoint applies the column-major matrix m to the point (x, y, z, 1) and returns the
// resulting x, y and z without a perspective divide.
//
// Parameters:
//   - m: the matrix to apply (16 elements, column-major)
//   - x, y, z: the point to transform
//
// Returns:
//   - float32, float32, float32: the transformed point
func TransformPoint(m []float32, x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}

// Radians converts an angle in degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * (math.Pi / 180)
}
