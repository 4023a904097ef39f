package matching

import "testing"

func TestOperationName(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"explicit field", `{"operationName":"GetUser","query":"query GetUser { user { id } }"}`, "GetUser", true},
		{"field without query", `{"operationName":"GetUser"}`, "GetUser", true},
		{"derived from single named operation", `{"query":"query ListUsers { users { id } }"}`, "ListUsers", true},
		{"derived from mutation", `{"query":"mutation CreateUser { createUser { id } }"}`, "CreateUser", true},
		{"anonymous operation", `{"query":"{ users { id } }"}`, "", false},
		{"multiple named operations", `{"query":"query A { a } query B { b }"}`, "", false},
		{"invalid query document", `{"query":"query {{{"}`, "", false},
		{"empty body", ``, "", false},
		{"not json", `plain text`, "", false},
		{"json without graphql fields", `{"id":42}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			got, ok := OperationName(body)
			if ok != tt.wantOK {
				t.Fatalf("OperationName() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("OperationName() = %q, want %q", got, tt.want)
			}
		})
	}
}
