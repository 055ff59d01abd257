package errno

import (
	stderrors "errors"
	"net/http"

	"github.com/zeromicro/x/errors"
)

// Code extracts the business code carried by err, InternalError when it carries none.
func Code(err error) int {
	if err == nil {
		return StatusOK
	}
	var cm *errors.CodeMsg
	if stderrors.As(err, &cm) {
		return cm.Code
	}
	return InternalError
}

// HTTPStatus maps a business code to its HTTP status. The band of the code is the status.
func HTTPStatus(code int) int {
	if code == StatusOK {
		return http.StatusOK
	}
	if status := code / 100; status >= 400 && status < 600 {
		return status
	}
	return http.StatusInternalServerError
}

func band(err error) int {
	if err == nil {
		return 0
	}
	return Code(err) / 100
}

func IsValidation(err error) bool { return band(err) == http.StatusBadRequest }

func IsNotFound(err error) bool { return band(err) == http.StatusNotFound }

func IsConflict(err error) bool { return band(err) == http.StatusConflict }

func IsDependency(err error) bool { return band(err) == http.StatusServiceUnavailable }
