package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var openapiDocument []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return spec, nil
}

// RequestValidator rejects requests to documented routes whose parameters or
// body do not match the document. Undocumented routes pass through.
func RequestValidator(spec *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacyrouter.NewRouter(spec)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if validationErr := openapi3filter.ValidateRequest(req.Context(), input); validationErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
			}

			return next(ctx)
		}
	}, nil
}

type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string {
	return string(openapiDocument)
}

var registerSwaggerOnce sync.Once

// registerSwaggerDoc publishes the document to the swagger UI handler.
func registerSwaggerDoc() {
	registerSwaggerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{})
	})
}
