package machine

import "fmt"

// MagicMethod identifies a protocol method looked up on a class to implement
// the language's syntax and conversions.
type MagicMethod uint8

// List of magic methods.
const (
	MagicNew MagicMethod = iota
	MagicInit

	MagicStr
	MagicRepr
	MagicBool
	MagicInt
	MagicFloat

	MagicAdd
	MagicRAdd
	MagicSub
	MagicRSub
	MagicMul
	MagicRMul
	MagicTrueDiv
	MagicRTrueDiv
	MagicFloorDiv
	MagicRFloorDiv
	MagicMod
	MagicRMod
	MagicPow
	MagicRPow

	MagicEq
	MagicNe
	MagicLt
	MagicLe
	MagicGt
	MagicGe
	MagicContains

	MagicIter
	MagicNext

	MagicNeg
	MagicPos

	NumMagic // number of magic methods, not a valid MagicMethod
)

var magicNames = [...]string{
	MagicNew:       "__new__",
	MagicInit:      "__init__",
	MagicStr:       "__str__",
	MagicRepr:      "__repr__",
	MagicBool:      "__bool__",
	MagicInt:       "__int__",
	MagicFloat:     "__float__",
	MagicAdd:       "__add__",
	MagicRAdd:      "__radd__",
	MagicSub:       "__sub__",
	MagicRSub:      "__rsub__",
	MagicMul:       "__mul__",
	MagicRMul:      "__rmul__",
	MagicTrueDiv:   "__truediv__",
	MagicRTrueDiv:  "__rtruediv__",
	MagicFloorDiv:  "__floordiv__",
	MagicRFloorDiv: "__rfloordiv__",
	MagicMod:       "__mod__",
	MagicRMod:      "__rmod__",
	MagicPow:       "__pow__",
	MagicRPow:      "__rpow__",
	MagicEq:        "__eq__",
	MagicNe:        "__ne__",
	MagicLt:        "__lt__",
	MagicLe:        "__le__",
	MagicGt:        "__gt__",
	MagicGe:        "__ge__",
	MagicContains:  "__contains__",
	MagicIter:      "__iter__",
	MagicNext:      "__next__",
	MagicNeg:       "__neg__",
	MagicPos:       "__pos__",
}

var magicByName = func() map[string]MagicMethod {
	m := make(map[string]MagicMethod, NumMagic)
	for mm := MagicMethod(0); mm < NumMagic; mm++ {
		m[magicNames[mm]] = mm
	}
	return m
}()

// String returns the attribute name of the magic method, e.g. "__add__".
func (m MagicMethod) String() string {
	if m < NumMagic {
		return magicNames[m]
	}
	return fmt.Sprintf("<invalid MagicMethod %d>", m)
}

// LookupMagic returns the magic method corresponding to the attribute name.
func LookupMagic(name string) (MagicMethod, bool) {
	m, ok := magicByName[name]
	return m, ok
}
