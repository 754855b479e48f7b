package llm

// ToolDefinition describes a function the model may invoke instead of
// answering in free text. Parameters follow JSON Schema.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ParameterProperty defines one parameter property in JSON Schema form.
type ParameterProperty struct {
	Type        string
	Description string
	Enum        []string
}

// NewToolDefinition builds a tool definition with standard JSON Schema
// object parameters.
func NewToolDefinition(name, description string, properties map[string]ParameterProperty, required []string) ToolDefinition {
	props := make(map[string]any, len(properties))
	for key, property := range properties {
		prop := map[string]any{
			"type":        property.Type,
			"description": property.Description,
		}
		if len(property.Enum) > 0 {
			prop["enum"] = property.Enum
		}
		props[key] = prop
	}

	return ToolDefinition{
		Name:        name,
		Description: description,
		Parameters: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}
