package graphql

// Request represents an incoming GraphQL request.
type Request struct {
	// Query is the GraphQL query string.
	Query string `json:"query"`
	// OperationName selects the operation in multi-operation documents.
	OperationName string `json:"operationName,omitempty"`
	// Variables are the variable values for the query.
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Response represents a GraphQL response.
type Response struct {
	// Data contains the result of the query execution.
	Data interface{} `json:"data,omitempty"`
	// Errors contains any errors that occurred during execution.
	Errors []Error `json:"errors,omitempty"`
	// Extensions contains additional response metadata.
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Error represents a GraphQL error in the response format.
type Error struct {
	// Message is the error message.
	Message string `json:"message"`
	// Locations indicates where in the query the error occurred.
	Locations []ErrorLocation `json:"locations,omitempty"`
	// Path is the response field path where the error occurred.
	Path []interface{} `json:"path,omitempty"`
	// Extensions contains additional error metadata.
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// ErrorLocation is a 1-indexed line/column position in the query source.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// FieldPath identifies a field in the schema, e.g. "Query.user" or
// "User.name".
type FieldPath struct {
	// TypeName is the parent type name.
	TypeName string
	// FieldName is the field name.
	FieldName string
}

// String returns the dotted form of the field path.
func (fp FieldPath) String() string {
	return fp.TypeName + "." + fp.FieldName
}

// ParseFieldPath parses "Type.field" into a FieldPath. A string without a
// dot is treated as a bare field name.
func ParseFieldPath(path string) FieldPath {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return FieldPath{TypeName: path[:i], FieldName: path[i+1:]}
		}
	}
	return FieldPath{FieldName: path}
}
