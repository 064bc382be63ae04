package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam разбирает числовой параметр пути и кладет его в контекст
// под заданным ключом. Обработчики читают значение через paramUint по ключу
// ("companyID", "quizID" и т.д.), не завися от имени сегмента в маршруте.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid %s: %q", paramName, raw),
			})
			return
		}
		c.Set(contextKey, uint(value))
		c.Next()
	}
}
