package handler

import (
	"net/http"

	_ "login-api/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DocsPath is where Swagger UI is mounted.
const DocsPath = "/docs"

// DocsHandler serves Swagger UI over the document generated from the route
// annotations (see the docs package).
type DocsHandler struct {
	ui gin.HandlerFunc
}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{
		ui: ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL(DocsPath+"/doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.PersistAuthorization(true),
		),
	}
}

// Index redirects /docs to the UI page.
func (h *DocsHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, DocsPath+"/index.html")
}

// UI serves the Swagger UI assets and doc.json.
func (h *DocsHandler) UI(c *gin.Context) {
	h.ui(c)
}
