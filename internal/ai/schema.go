package ai

// Type names understood by the responseSchema field of the endpoint.
type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeArray   Type = "ARRAY"
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
)

// Schema declares the JSON shape a structured request must return.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Object builds an OBJECT schema whose listed fields are all required.
func Object(fields map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: fields, Required: required}
}

func Field(t Type, description string) *Schema {
	return &Schema{Type: t, Description: description}
}
