package shape

type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindFloat
	KindString
	KindCustom
	KindBox
	KindRef
	KindPointer
	KindOption
	KindEnum
	KindTaggedUnion
	KindRecord
	KindTuple
	KindSum
	KindSequence
	KindSet
	KindMap
)

var kindNames = [...]string{
	KindBool:        "bool",
	KindInt:         "int",
	KindUint:        "uint",
	KindFloat:       "float",
	KindString:      "string",
	KindCustom:      "custom",
	KindBox:         "box",
	KindRef:         "ref",
	KindPointer:     "pointer",
	KindOption:      "option",
	KindEnum:        "enum",
	KindTaggedUnion: "tagged-union",
	KindRecord:      "record",
	KindTuple:       "tuple",
	KindSum:         "sum",
	KindSequence:    "sequence",
	KindSet:         "set",
	KindMap:         "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k <= KindString
}

// IsWrapper reports whether the kind forwards to a single inner shape.
func (k Kind) IsWrapper() bool {
	switch k {
	case KindBox, KindRef, KindPointer, KindOption:
		return true
	default:
		return false
	}
}

// Nullable reports whether a null document value is a valid encoding.
func (k Kind) Nullable() bool {
	switch k {
	case KindPointer, KindOption, KindSequence, KindSet, KindMap:
		return true
	default:
		return false
	}
}
