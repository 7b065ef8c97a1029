package response

import (
	"net/http"

	cErr "formrelay/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

// HeaderRequestID 由 recovery middleware 寫入
const HeaderRequestID = "X-Request-Id"

type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		RequestID:   c.Writer.Header().Get(HeaderRequestID),
		Code:        cErr.SUCCESS,
		Data:        data,
		Message:     "OK",
		Description: "Request Success",
	})
	c.Abort()
}

// AbortWithError 交給 recovery middleware 統一輸出
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   requestID,
		Code:        errorCode,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, requestID string, err error) {
	if v, ok := err.(*cErr.Error); ok {
		Fail(c, requestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc())
		return
	}
	Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, err.Error(), "internal error")
}
