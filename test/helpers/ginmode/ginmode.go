package ginmode

import (
	"sync"

	"github.com/gin-gonic/gin"
)

var once sync.Once

// EnsureGinTestMode switches gin to test mode exactly once per test binary.
func EnsureGinTestMode() {
	once.Do(func() {
		gin.SetMode(gin.TestMode)
	})
}
