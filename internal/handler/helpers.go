package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryInt читает числовой query-параметр со значением по умолчанию
func queryInt(c *gin.Context, name string, def int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return value
}

// paramUint читает числовой параметр URL, сохраненный middleware
func paramUint(c *gin.Context, contextKey string) uint {
	value, exists := c.Get(contextKey)
	if !exists {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}
