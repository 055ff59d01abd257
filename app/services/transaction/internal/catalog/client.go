package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"SwapIt/app/common/consts/biz"
	"SwapIt/app/services/transaction/internal/saga"

	"github.com/zeromicro/go-zero/rest/httpc"
)

var (
	_ saga.Guard     = (*Client)(nil)
	_ saga.Inspector = (*Client)(nil)
)

var ErrProductNotFound = errors.New("product not found")

type Conf struct {
	BaseURL string
	Timeout time.Duration `json:",default=5s"`
	// UseStatusEndpoint compensates through PUT /products/:id for catalogs without the reservation endpoints.
	UseStatusEndpoint bool `json:",optional"`
}

type Product struct {
	Id          string  `json:"id"`
	UserId      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

// Client talks to the catalog service. It is the saga's reservation guard.
type Client struct {
	base     string
	svc      httpc.Service
	fallback bool
}

func NewClient(c Conf) *Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = biz.DependencyTimeout
	}
	return &Client{
		base:     strings.TrimSuffix(c.BaseURL, "/"),
		svc:      httpc.NewServiceWithClient("catalog", &http.Client{Timeout: timeout}),
		fallback: c.UseStatusEndpoint,
	}
}

type productPath struct {
	Id string `path:"id"`
}

type reserveReq struct {
	Id      string `path:"id"`
	OwnerId string `json:"ownerId"`
	HoldId  string `json:"holdId"`
}

type holdReq struct {
	Id     string `path:"id"`
	HoldId string `json:"holdId"`
}

type statusReq struct {
	Id     string `path:"id"`
	Status string `json:"status"`
	HoldId string `json:"holdId"`
}

type productResp struct {
	Code int     `json:"code"`
	Msg  string  `json:"msg"`
	Data Product `json:"data"`
}

func (c *Client) Reserve(ctx context.Context, productID, ownerID, holdID string) (saga.Outcome, error) {
	return c.guarded(ctx, http.MethodPost, "/products/:id/reserve", &reserveReq{Id: productID, OwnerId: ownerID, HoldId: holdID})
}

func (c *Client) Release(ctx context.Context, productID, holdID string) (saga.Outcome, error) {
	if c.fallback {
		return c.guarded(ctx, http.MethodPut, "/products/:id", &statusReq{Id: productID, Status: "available", HoldId: holdID})
	}
	return c.guarded(ctx, http.MethodPost, "/products/:id/release", &holdReq{Id: productID, HoldId: holdID})
}

func (c *Client) Finalize(ctx context.Context, productID, holdID string) (saga.Outcome, error) {
	if c.fallback {
		return c.guarded(ctx, http.MethodPut, "/products/:id", &statusReq{Id: productID, Status: "sold", HoldId: holdID})
	}
	return c.guarded(ctx, http.MethodPost, "/products/:id/finalize", &holdReq{Id: productID, HoldId: holdID})
}

func (c *Client) guarded(ctx context.Context, method, path string, body any) (saga.Outcome, error) {
	resp, err := c.svc.Do(ctx, method, c.base+path, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return saga.Applied, nil
	case http.StatusNotFound:
		return saga.NotFound, nil
	case http.StatusConflict:
		return saga.Conflict, nil
	default:
		return 0, fmt.Errorf("catalog %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
}

// Get fetches one product.
func (c *Client) Get(ctx context.Context, productID string) (*Product, error) {
	resp, err := c.svc.Do(ctx, http.MethodGet, c.base+"/products/:id", &productPath{Id: productID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	default:
		return nil, fmt.Errorf("catalog get product: unexpected status %d", resp.StatusCode)
	}
	var out productResp
	if err := httpc.Parse(resp, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Inspect reports the product's owner and status.
func (c *Client) Inspect(ctx context.Context, productID string) (saga.ProductState, error) {
	p, err := c.Get(ctx, productID)
	if err != nil {
		return saga.ProductState{}, err
	}
	return saga.ProductState{OwnerID: p.UserId, Status: p.Status}, nil
}
