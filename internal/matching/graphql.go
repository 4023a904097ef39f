package matching

import (
	"encoding/json"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// graphQLProbe is the subset of a GraphQL-over-HTTP request body needed to
// derive an operation name.
type graphQLProbe struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// OperationName extracts a GraphQL operation name from a JSON request body.
// The explicit operationName field wins. When it is absent but the body
// carries a query document, the document's single named operation supplies
// the name; documents with zero or several named operations yield nothing.
func OperationName(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var probe graphQLProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	if probe.OperationName != "" {
		return probe.OperationName, true
	}
	if probe.Query == "" {
		return "", false
	}
	return operationNameFromQuery(probe.Query)
}

func operationNameFromQuery(query string) (string, bool) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", false
	}
	name := ""
	for _, op := range doc.Operations {
		if op.Name == "" {
			continue
		}
		if name != "" {
			// Ambiguous multi-operation document without an explicit
			// operationName; the caller cannot pick one.
			return "", false
		}
		name = op.Name
	}
	return name, name != ""
}
