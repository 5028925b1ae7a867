package loranodes

import "encoding/json"

// InputSpec declares a node's inputs in the host's schema shape: named
// fields split into a required and an optional group.
type InputSpec struct {
	// Required fields must be wired or filled for the node to execute.
	Required []Field

	// Optional fields may be left empty.
	Optional []Field
}

// Field declares one node input.
type Field struct {
	// Name is the input's key in the schema.
	Name string

	// Type is the host type tag ("MODEL", "CLIP", "STRING", "FLOAT").
	// Empty when Choices is set.
	Type string

	// Choices turns the field into a dropdown over the given values.
	Choices []string

	// Options is the widget config ("default", "min", "max", "step",
	// "multiline"). Nil for bare typed fields.
	Options map[string]any
}

// typeField declares a bare typed input, e.g. a MODEL or CLIP socket.
func typeField(name, typ string) Field {
	return Field{Name: name, Type: typ}
}

// comboField declares a dropdown input over choices.
func comboField(name string, choices []string) Field {
	return Field{Name: name, Choices: choices}
}

// stringField declares a STRING input with the given widget config.
func stringField(name string, options map[string]any) Field {
	return Field{Name: name, Type: "STRING", Options: options}
}

// floatField declares a FLOAT input with default and bounds.
func floatField(name string, def, min, max, step float64) Field {
	return Field{Name: name, Type: "FLOAT", Options: map[string]any{
		"default": def,
		"min":     min,
		"max":     max,
		"step":    step,
	}}
}

// spec renders the field's value in the host shape: [[choices]] for
// dropdowns, [TYPE, {options}] for configured widgets, [TYPE] otherwise.
func (f Field) spec() []any {
	switch {
	case f.Choices != nil:
		return []any{f.Choices}
	case f.Options != nil:
		return []any{f.Type, f.Options}
	default:
		return []any{f.Type}
	}
}

// MarshalJSON renders the host schema shape:
//
//	{"required": {"model": ["MODEL"], ...}, "optional": {...}}
//
// Groups without fields are omitted.
func (s InputSpec) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]any, 2)
	if len(s.Required) > 0 {
		out["required"] = fieldGroup(s.Required)
	}
	if len(s.Optional) > 0 {
		out["optional"] = fieldGroup(s.Optional)
	}
	return json.Marshal(out)
}

// fieldGroup maps field names to their rendered specs.
func fieldGroup(fields []Field) map[string]any {
	group := make(map[string]any, len(fields))
	for _, f := range fields {
		group[f.Name] = f.spec()
	}
	return group
}
