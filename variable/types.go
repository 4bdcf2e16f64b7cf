package variable

// ElementType is the closed enumeration of element types this engine
// understands. It is the runtime tag half of the tagged-union strategy
// that replaces C++ template instantiation: every Buffer knows its own
// ElementType, and Transform's dispatch switches on it instead of the
// compiler resolving an overload set.
type ElementType int

// The fixed element-type set. Sparse* wraps the corresponding scalar
// type as a variable-length row; there is no sparse wrapper for the
// non-scalar types.
const (
	TypeInvalid ElementType = iota
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeString
	TypeUnit
	TypeVector3
	TypeMatrix3x3
	TypeDataset
	TypeSparseInt32
	TypeSparseInt64
	TypeSparseFloat32
	TypeSparseFloat64
)

var typeNames = map[ElementType]string{
	TypeInvalid:       "invalid",
	TypeInt32:         "int32",
	TypeInt64:         "int64",
	TypeFloat32:       "float32",
	TypeFloat64:       "float64",
	TypeBool:          "bool",
	TypeString:        "string",
	TypeUnit:          "Unit",
	TypeVector3:       "vector3",
	TypeMatrix3x3:     "matrix3x3",
	TypeDataset:       "Dataset",
	TypeSparseInt32:   "sparse<int32>",
	TypeSparseInt64:   "sparse<int64>",
	TypeSparseFloat32: "sparse<float32>",
	TypeSparseFloat64: "sparse<float64>",
}

func (t ElementType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "invalid"
}

// IsSparse reports whether t is one of the sparse row wrapper types.
func (t ElementType) IsSparse() bool {
	switch t {
	case TypeSparseInt32, TypeSparseInt64, TypeSparseFloat32, TypeSparseFloat64:
		return true
	default:
		return false
	}
}

// IsNumericScalar reports whether t is one of the four types that may
// legally carry a variance (per the specification, only the numeric
// scalar types can; bool, string, Unit, vectors, matrices and Dataset
// cannot).
func (t ElementType) IsNumericScalar() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64:
		return true
	default:
		return false
	}
}

// RowElementType returns the scalar type underlying a sparse type, or t
// itself unchanged for a non-sparse t.
func (t ElementType) RowElementType() ElementType {
	switch t {
	case TypeSparseInt32:
		return TypeInt32
	case TypeSparseInt64:
		return TypeInt64
	case TypeSparseFloat32:
		return TypeFloat32
	case TypeSparseFloat64:
		return TypeFloat64
	default:
		return t
	}
}

// Vector3 is the 3-vector element type used for positions.
type Vector3 [3]float64

// Matrix3x3 is the 3x3 matrix element type used for rotations/tensors.
type Matrix3x3 [9]float64

// NestedDataset is the element type used for a Variable holding
// per-row nested datasets (e.g. per-spectrum event lists). It is kept
// as an opaque interface here, rather than a direct reference to
// package dataset's Dataset type, because dataset.Dataset composes
// Variable values itself: a direct import would form a cycle.
// *dataset.Dataset satisfies this interface through its IsDataset method.
type NestedDataset interface {
	IsDataset() bool
}

// Buffer is the storage backing a Variable: either a dense flat slice
// or, for a sparse element type, a slice of variable-length rows. All
// concrete buffers report their own ElementType, matching the tagged-
// union dispatch strategy.
type Buffer interface {
	Len() int
	ElemType() ElementType
	CloneBuffer() Buffer
}

// Dense is a flat, row-major buffer of T. It backs every non-sparse
// element type; for a sparse element type the "element" T is itself a
// []scalar row, and Dense[[]scalar] backs that sparse type instead of a
// dedicated sparse container, since a slice-of-rows and a slice-of-any
// other element are the same shape of problem for Buffer's purposes.
type Dense[T any] struct {
	Type ElementType
	Data []T
}

// NewDenseBuffer constructs a Dense[T] tagged with typ.
func NewDenseBuffer[T any](typ ElementType, data []T) *Dense[T] {
	return &Dense[T]{Type: typ, Data: data}
}

func (d *Dense[T]) Len() int             { return len(d.Data) }
func (d *Dense[T]) ElemType() ElementType { return d.Type }

func (d *Dense[T]) CloneBuffer() Buffer {
	out := make([]T, len(d.Data))
	copy(out, d.Data)
	return &Dense[T]{Type: d.Type, Data: out}
}
