package mcpapp

// CleanSchema removes every "title" key from a JSON schema, at every level
// reachable through "properties", "items", "$defs"/"definitions" and the
// "anyOf"/"allOf"/"oneOf" combinators. Gemini rejects titles in function
// parameters.
//
// The schema is modified in place and returned. Property names are left
// alone, so a property called "title" survives. Values that are not JSON
// objects are returned as is.
func CleanSchema(schema any) any {
	m, ok := schema.(map[string]any)
	if !ok {
		return schema
	}
	delete(m, "title")

	for _, key := range []string{"properties", "$defs", "definitions"} {
		if props, ok := m[key].(map[string]any); ok {
			for name, sub := range props {
				props[name] = CleanSchema(sub)
			}
		}
	}

	switch items := m["items"].(type) {
	case map[string]any:
		m["items"] = CleanSchema(items)
	case []any:
		for i, sub := range items {
			items[i] = CleanSchema(sub)
		}
	}

	for _, key := range []string{"anyOf", "allOf", "oneOf"} {
		if subs, ok := m[key].([]any); ok {
			for i, sub := range subs {
				subs[i] = CleanSchema(sub)
			}
		}
	}
	return m
}
