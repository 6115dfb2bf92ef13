package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/cinelist/cinelist-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string         `json:"openapi"`
	Info       map[string]any `json:"info"`
	Servers    []Server       `json:"servers"`
	Paths      map[string]any `json:"paths"`
	Components map[string]any `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIHandler serves the generated swagger doc as OpenAPI 3.0
type OpenAPIHandler struct {
	servers []Server
}

// NewOpenAPIHandler creates a new OpenAPIHandler advertising the given servers
func NewOpenAPIHandler(servers ...Server) *OpenAPIHandler {
	return &OpenAPIHandler{servers: servers}
}

// ServeOpenAPI3Spec handles GET /openapi.json
func (h *OpenAPIHandler) ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	spec, err := convertToOpenAPI3([]byte(doc), h.servers)
	if err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	return c.JSON(http.StatusOK, spec)
}

func convertToOpenAPI3(doc []byte, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]any
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]any)

	basePath, _ := swagger2["basePath"].(string)
	if len(servers) == 0 {
		servers = []Server{{URL: basePath, Description: "Current host"}}
	}

	paths, _ := swagger2["paths"].(map[string]any)
	transformed := make(map[string]any, len(paths))
	for path, item := range paths {
		operations, ok := item.(map[string]any)
		if !ok {
			continue
		}
		converted := make(map[string]any, len(operations))
		for method, op := range operations {
			if opMap, ok := op.(map[string]any); ok {
				converted[method] = convertOperation(opMap)
			}
		}
		transformed[path] = converted
	}

	components := make(map[string]any)
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]any); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]any); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      transformed,
		Components: components,
	}, nil
}

// convertOperation moves body parameters into requestBody and wraps response schemas in content
func convertOperation(op map[string]any) map[string]any {
	result := make(map[string]any, len(op))
	for key, value := range op {
		switch key {
		case "consumes", "produces":
		case "parameters":
			params, _ := value.([]any)
			var kept []any
			for _, p := range params {
				param, ok := p.(map[string]any)
				if !ok {
					continue
				}
				if param["in"] == "body" {
					result["requestBody"] = map[string]any{
						"description": param["description"],
						"required":    param["required"],
						"content": map[string]any{
							"application/json": map[string]any{"schema": transformRefs(param["schema"])},
						},
					}
					continue
				}
				kept = append(kept, transformParameter(param))
			}
			if len(kept) > 0 {
				result["parameters"] = kept
			}
		case "responses":
			responses, _ := value.(map[string]any)
			converted := make(map[string]any, len(responses))
			for status, r := range responses {
				resp, ok := r.(map[string]any)
				if !ok {
					continue
				}
				out := map[string]any{"description": resp["description"]}
				if schema, ok := resp["schema"]; ok {
					out["content"] = map[string]any{
						"application/json": map[string]any{"schema": transformRefs(schema)},
					}
				}
				converted[status] = out
			}
			result[key] = converted
		default:
			result[key] = value
		}
	}
	return result
}

// transformRefs recursively rewrites $ref from #/definitions/ to #/components/schemas/
func transformRefs(data any) any {
	switch v := data.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformParameter converts a Swagger 2.0 non-body parameter to OpenAPI 3.0 format
func transformParameter(param map[string]any) map[string]any {
	result := make(map[string]any)
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]any)
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}

	return result
}
