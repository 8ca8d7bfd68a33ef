package sketch

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MarshalJSON encodes the sketch with kind-tagged primitives so
// consumers can tell a line from an arc without guessing at fields.
func (s *Sketch) MarshalJSON() ([]byte, error) {
	prims := make([]json.RawMessage, 0, len(s.Primitives))
	for _, p := range s.Primitives {
		raw, err := marshalPrimitive(p)
		if err != nil {
			return nil, err
		}
		prims = append(prims, raw)
	}

	return json.Marshal(struct {
		ID          string            `json:"id"`
		Plane       string            `json:"plane"`
		Revision    uint64            `json:"revision"`
		Primitives  []json.RawMessage `json:"primitives"`
		Constraints []Constraint      `json:"constraints"`
		DOF         int               `json:"dof"`
		Status      string            `json:"status"`
	}{
		ID:          s.ID.String(),
		Plane:       s.Plane.String(),
		Revision:    s.Revision,
		Primitives:  prims,
		Constraints: s.Constraints,
		DOF:         s.DOF,
		Status:      s.Status.String(),
	})
}

// marshalPrimitive wraps a primitive with its kind tag.
func marshalPrimitive(p Primitive) ([]byte, error) {
	switch v := p.(type) {
	case Point:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Point
		}{v.Kind().String(), v})
	case Line:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Line
		}{v.Kind().String(), v})
	case Circle:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Circle
		}{v.Kind().String(), v})
	case Arc:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Arc
		}{v.Kind().String(), v})
	default:
		return json.Marshal(p)
	}
}

// MarshalJSON encodes the constraint type by name rather than ordinal.
func (t ConstraintType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a constraint type from its name.
func (t *ConstraintType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseConstraintType(name)
	if !ok {
		return fmt.Errorf("unknown constraint type %q", name)
	}
	*t = parsed
	return nil
}

// UnmarshalJSON decodes a snapshot produced by MarshalJSON. DOF and
// status are recomputed rather than trusted, and the id allocator
// resumes past the highest id seen.
func (s *Sketch) UnmarshalJSON(data []byte) error {
	var doc struct {
		ID          string            `json:"id"`
		Plane       string            `json:"plane"`
		Revision    uint64            `json:"revision"`
		Primitives  []json.RawMessage `json:"primitives"`
		Constraints []Constraint      `json:"constraints"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return fmt.Errorf("sketch id: %w", err)
	}
	plane, ok := ParsePlane(doc.Plane)
	if !ok {
		return fmt.Errorf("unknown plane %q", doc.Plane)
	}

	loaded := Sketch{
		ID:          id,
		Plane:       plane,
		Revision:    doc.Revision,
		Constraints: doc.Constraints,
		nextID:      1,
	}
	for _, raw := range doc.Primitives {
		p, err := unmarshalPrimitive(raw)
		if err != nil {
			return err
		}
		loaded.Primitives = append(loaded.Primitives, p)
		if p.PrimID() >= loaded.nextID {
			loaded.nextID = p.PrimID() + 1
		}
	}
	for _, c := range loaded.Constraints {
		if c.ID >= loaded.nextID {
			loaded.nextID = c.ID + 1
		}
	}

	*s = loaded
	s.refreshDOF()
	return nil
}

// unmarshalPrimitive dispatches on the kind tag.
func unmarshalPrimitive(data []byte) (Primitive, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Kind {
	case KindPoint.String():
		var p Point
		err := json.Unmarshal(data, &p)
		return p, err
	case KindLine.String():
		var l Line
		err := json.Unmarshal(data, &l)
		return l, err
	case KindCircle.String():
		var c Circle
		err := json.Unmarshal(data, &c)
		return c, err
	case KindArc.String():
		var a Arc
		err := json.Unmarshal(data, &a)
		return a, err
	default:
		return nil, fmt.Errorf("unknown primitive kind %q", tag.Kind)
	}
}
