package workshops

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/internal/utils/request"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/internal/workshop/lifecycle"
	"github.com/orchestra-io/orchestra/internal/workshop/translator"
)

// Dependencies defines the dependencies for workshop handlers
type Dependencies struct {
	Lifecycle lifecycle.Interface
	// DefaultNamespace is used when a request has no namespace query parameter.
	DefaultNamespace string
}

// ListResponse is one page of workshops.
type ListResponse struct {
	Items []workshop.Workshop `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// StatusResponse is the polling view of a workshop.
type StatusResponse struct {
	Name   string          `json:"name"`
	Status workshop.Status `json:"status"`
}

// RegisterRoutes registers workshop routes under group. Authentication is
// expected among middlewares.
func RegisterRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	workshops := group.Group("/workshops")
	workshops.Use(middlewares...)

	workshops.POST("", handleCreate(deps))
	workshops.GET("", handleList(deps))
	workshops.GET("/:name", handleGet(deps))
	workshops.DELETE("/:name", handleDelete(deps))
	workshops.GET("/:name/status", handleStatus(deps))
}

func handleCreate(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req workshop.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			request.AbortWithError(c, http.StatusBadRequest, workshop.CodeInvalidInput, "invalid request body: "+err.Error())
			return
		}

		namespace, ok := namespaceParam(c, deps)
		if !ok {
			return
		}

		created, err := deps.Lifecycle.CreateWorkshop(c.Request.Context(), namespace, &req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

func handleList(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := request.ParsePage(c)
		if err != nil {
			request.AbortWithError(c, http.StatusBadRequest, workshop.CodeInvalidInput, err.Error())
			return
		}

		namespace, ok := namespaceParam(c, deps)
		if !ok {
			return
		}

		items, err := deps.Lifecycle.ListWorkshops(c.Request.Context(), namespace)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Items: request.Paginate(items, page),
			Total: len(items),
			Page:  page.Page,
			Size:  page.Size,
		})
	}
}

func handleGet(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		namespace, ok := namespaceParam(c, deps)
		if !ok {
			return
		}

		w, err := deps.Lifecycle.GetWorkshop(c.Request.Context(), namespace, c.Param("name"))
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, w)
	}
}

func handleDelete(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		namespace, ok := namespaceParam(c, deps)
		if !ok {
			return
		}

		if err := deps.Lifecycle.DeleteWorkshop(c.Request.Context(), namespace, c.Param("name")); err != nil {
			writeError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func handleStatus(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		namespace, ok := namespaceParam(c, deps)
		if !ok {
			return
		}

		name := c.Param("name")

		status, err := deps.Lifecycle.GetStatus(c.Request.Context(), namespace, name)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Name: name, Status: *status})
	}
}

// namespaceParam returns the namespace query parameter, falling back to
// deps.DefaultNamespace. An invalid namespace aborts with 400.
func namespaceParam(c *gin.Context, deps *Dependencies) (string, bool) {
	namespace := c.Query("namespace")
	if namespace == "" {
		namespace = deps.DefaultNamespace
	}

	if err := translator.ValidateNamespace(namespace); err != nil {
		writeError(c, err)
		return "", false
	}

	return namespace, true
}

// writeError maps the workshop error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	code := workshop.Code(err)

	var status int

	switch code {
	case workshop.CodeInvalidInput:
		status = http.StatusBadRequest
	case workshop.CodeNotFound:
		status = http.StatusNotFound
	case workshop.CodeConflict:
		status = http.StatusConflict
	case workshop.CodeUnreachable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		klog.Errorf("Workshop request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	request.AbortWithError(c, status, code, err.Error())
}
