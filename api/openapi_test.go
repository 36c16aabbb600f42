package api

import (
	"slices"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/dgnsrekt/catalog-stream/internal/api/generated"
)

func TestOpenAPISpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(OpenAPISpec)
	if err != nil {
		t.Fatalf("parsing openapi.yaml: %v", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		t.Fatalf("validating openapi.yaml: %v", err)
	}
	for _, path := range []string{"/v1/records", "/v1/records/{id}", "/v1/records/stream", "/v1/records/byName"} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("expected path %s in spec", path)
		}
	}
}

// The generated package must be regenerated whenever a records operation
// changes in openapi.yaml.
func TestGeneratedSpecMatchesDocument(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData(OpenAPISpec)
	if err != nil {
		t.Fatalf("parsing openapi.yaml: %v", err)
	}
	embedded, err := generated.GetSwagger()
	if err != nil {
		t.Fatalf("GetSwagger failed: %v", err)
	}

	want := operationIDs(doc, "records")
	got := operationIDs(embedded, "records")
	if !slices.Equal(got, want) {
		t.Errorf("generated operations %v differ from openapi.yaml %v; run go generate ./api", got, want)
	}
	if stream := operationIDs(embedded, "stream"); len(stream) != 0 {
		t.Errorf("stream operations are registered by hand, found %v in generated spec", stream)
	}
}

func operationIDs(doc *openapi3.T, tag string) []string {
	var ids []string
	for _, item := range doc.Paths.Map() {
		for _, op := range item.Operations() {
			if slices.Contains(op.Tags, tag) {
				ids = append(ids, op.OperationID)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
