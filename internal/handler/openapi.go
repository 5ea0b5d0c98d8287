package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/docs"
)

// OpenAPIDoc returns the OpenAPI document from the docs package.
func OpenAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
}
