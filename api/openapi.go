// Package api embeds the OpenAPI document describing the HTTP surface.
package api

//go:generate go tool oapi-codegen -config oapi-codegen.yaml openapi.yaml

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
