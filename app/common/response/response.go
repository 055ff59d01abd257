package response

import (
	"context"
	stderrors "errors"

	"SwapIt/app/common/consts/errno"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/x/errors"
)

type Response struct {
	StatusCode int    `json:"code"`
	StatusMsg  string `json:"msg"`
}

func NewResponse(statusCode int, statusMsg string) Response {
	return Response{
		StatusCode: statusCode,
		StatusMsg:  statusMsg,
	}
}

// ErrorHandler renders coded errors with the HTTP status of their band.
// Uncoded errors are logged and hidden behind a generic internal error.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	var cm *errors.CodeMsg
	if !stderrors.As(err, &cm) {
		logx.WithContext(ctx).Errorf("unhandled error: %v", err)
		return errno.HTTPStatus(errno.InternalError), NewResponse(errno.InternalError, "internal error")
	}
	return errno.HTTPStatus(cm.Code), NewResponse(cm.Code, cm.Msg)
}

// Install registers ErrorHandler as the process-wide httpx error handler.
func Install() {
	httpx.SetErrorHandlerCtx(ErrorHandler)
}
