package errno

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/zeromicro/x/errors"
)

func TestHTTPStatusFollowsBand(t *testing.T) {
	cases := map[int]int{
		StatusOK:           http.StatusOK,
		InvalidTransition:  http.StatusBadRequest,
		PaymentDeclined:    http.StatusPaymentRequired,
		OrderNotFound:      http.StatusNotFound,
		ProductUnavailable: http.StatusConflict,
		InternalError:      http.StatusInternalServerError,
		CatalogUnavailable: http.StatusServiceUnavailable,
		7:                  http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("HTTPStatus(%d) = %d, want %d", code, got, want)
		}
	}
}

func TestPredicatesSeeWrappedCodes(t *testing.T) {
	err := fmt.Errorf("place order: %w", errors.New(ProductUnavailable, "product unavailable"))
	if !IsConflict(err) || IsNotFound(err) {
		t.Fatalf("wrapped conflict misclassified")
	}
	if Code(fmt.Errorf("boom")) != InternalError {
		t.Fatalf("uncoded error should be internal")
	}
	if IsDependency(nil) {
		t.Fatalf("nil error is not a dependency failure")
	}
}
