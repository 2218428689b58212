package response

import "net/http"

// 常见 HTTP 状态码的默认提示
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusServiceUnavailable:  "server busy",
	http.StatusGatewayTimeout:      "timeout",
	http.StatusInternalServerError: "internal server error",
}
