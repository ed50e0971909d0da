package position

// Transform is one of the 8 symmetries of the square: the identity, three rotations, and their
// reflections.
type Transform uint8

const (
	TransformIdentity Transform = iota
	TransformRotate90
	TransformRotate180
	TransformRotate270
	TransformReflectX // mirror across the vertical axis
	TransformReflectY // mirror across the horizontal axis
	TransformTranspose
	TransformAntiTranspose

	TotalTransforms = 8
)

var AllTransforms = [TotalTransforms]Transform{
	TransformIdentity,
	TransformRotate90,
	TransformRotate180,
	TransformRotate270,
	TransformReflectX,
	TransformReflectY,
	TransformTranspose,
	TransformAntiTranspose,
}

// Apply maps p onto its image on a board of dimension dim.
func (t Transform) Apply(p, dim Pos) Pos {
	x, y, m := p.X(), p.Y(), dim-1
	switch t {
	case TransformRotate90:
		return NewPos(m-y, x)
	case TransformRotate180:
		return NewPos(m-x, m-y)
	case TransformRotate270:
		return NewPos(y, m-x)
	case TransformReflectX:
		return NewPos(m-x, y)
	case TransformReflectY:
		return NewPos(x, m-y)
	case TransformTranspose:
		return NewPos(y, x)
	case TransformAntiTranspose:
		return NewPos(m-y, m-x)
	default:
		return p
	}
}

func (t Transform) String() string {
	switch t {
	case TransformIdentity:
		return "identity"
	case TransformRotate90:
		return "rotate90"
	case TransformRotate180:
		return "rotate180"
	case TransformRotate270:
		return "rotate270"
	case TransformReflectX:
		return "reflectX"
	case TransformReflectY:
		return "reflectY"
	case TransformTranspose:
		return "transpose"
	case TransformAntiTranspose:
		return "antiTranspose"
	default:
		return ""
	}
}
