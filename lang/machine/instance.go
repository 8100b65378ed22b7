package machine

import "github.com/dolthub/swiss"

// Payload is the native storage of an instance of an Internal class, such as
// the start, stop and step fields of a range.
type Payload interface {
	// Field returns the value of the field name, or false if the payload has
	// no such field.
	Field(name string) (Value, bool)

	// SetField sets the field name to v. It may reject the write with an
	// AttributeError.
	SetField(name string, v Value) error
}

// Instance is an instance of a class. It stores its fields either in a
// native payload or in a generic attributes map, never both.
type Instance struct {
	class   *Class
	payload Payload
	attrs   *swiss.Map[string, Value]
}

// NewInstance returns a new instance of cls. If payload is nil, the instance
// stores its fields in an attributes map.
func NewInstance(cls *Class, payload Payload) *Instance {
	inst := &Instance{class: cls, payload: payload}
	if payload == nil {
		inst.attrs = swiss.NewMap[string, Value](0)
	}
	return inst
}

// Class returns the class of the instance.
func (inst *Instance) Class() *Class { return inst.class }

// Payload returns the native payload of the instance, nil if it has none.
func (inst *Instance) Payload() Payload { return inst.payload }

// GetField returns the value of the field name, looking first in the payload
// and then in the attributes map. It returns an AttributeError if the field
// does not exist. It does not look up class attributes.
func (inst *Instance) GetField(name string) (Value, error) {
	if inst.payload != nil {
		if v, ok := inst.payload.Field(name); ok {
			return v, nil
		}
	} else if v, ok := inst.attrs.Get(name); ok {
		return v, nil
	}
	return nil, AttributeError.New("'%s' object has no attribute '%s'", inst.class.Name(), name)
}

// SetField sets the value of the field name. An instance with a payload
// delegates the write to it, which may reject it.
func (inst *Instance) SetField(name string, v Value) error {
	if inst.payload != nil {
		return inst.payload.SetField(name, v)
	}
	inst.attrs.Put(name, v)
	return nil
}
