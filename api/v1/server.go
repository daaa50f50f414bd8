package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /queues)
	ListQueues(c *gin.Context)
	// (GET /queues/{name})
	GetQueue(c *gin.Context, name string)
	// (POST /queues/{name}/ping)
	PingQueue(c *gin.Context, name string, params PingQueueParams)
	// (POST /queues/{name}/purge)
	PurgeQueue(c *gin.Context, name string)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

// ListQueues operation middleware
func (siw *ServerInterfaceWrapper) ListQueues(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.ListQueues(c)
}

// GetQueue operation middleware
func (siw *ServerInterfaceWrapper) GetQueue(c *gin.Context) {
	name, ok := siw.bindName(c)
	if !ok {
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetQueue(c, name)
}

// PingQueue operation middleware
func (siw *ServerInterfaceWrapper) PingQueue(c *gin.Context) {
	name, ok := siw.bindName(c)
	if !ok {
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params PingQueueParams

	// ------------- Optional query parameter "front" -------------

	err := runtime.BindQueryParameter("form", true, false, "front", c.Request.URL.Query(), &params.Front)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter front: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PingQueue(c, name, params)
}

// PurgeQueue operation middleware
func (siw *ServerInterfaceWrapper) PurgeQueue(c *gin.Context) {
	name, ok := siw.bindName(c)
	if !ok {
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PurgeQueue(c, name)
}

// ------------- Path parameter "name" -------------
func (siw *ServerInterfaceWrapper) bindName(c *gin.Context) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", c.Param("name"), &name,
		runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter name: %w", err), http.StatusBadRequest)
		return "", false
	}
	return name, true
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, Error{Error: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/queues", wrapper.ListQueues)
	router.GET(options.BaseURL+"/queues/:name", wrapper.GetQueue)
	router.POST(options.BaseURL+"/queues/:name/ping", wrapper.PingQueue)
	router.POST(options.BaseURL+"/queues/:name/purge", wrapper.PurgeQueue)
}
