package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ordersvc/fulfillment/internal/domain/product"
)

var _ product.Inventory = (*InventoryClient)(nil)

// InventoryClient calls the product catalog service over HTTP.
type InventoryClient struct {
	base string
	http *http.Client
}

// NewInventoryClient creates a client for the catalog service at baseURL.
func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// GetProduct fetches a product record, including the unit price captured on
// the order. Returns product.ErrNotFound for a missing product.
func (c *InventoryClient) GetProduct(ctx context.Context, productID int64) (*product.Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.base, productID)
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, product.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, errors.Errorf("catalog: unexpected status %d", status)
	}

	p, err := decodeProduct(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return p, nil
}

// CheckStock queries units on hand. A missing product is reported as
// unavailable; the check is advisory either way.
func (c *InventoryClient) CheckStock(ctx context.Context, productID int64) (*product.StockResult, error) {
	url := fmt.Sprintf("%s/api/products/%d/check-stock", c.base, productID)
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusNotFound:
		return &product.StockResult{Available: false}, nil
	case http.StatusOK:
	default:
		return nil, errors.Errorf("catalog: unexpected status %d", status)
	}

	res, err := decodeStock(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode stock result")
	}
	return res, nil
}

// Reserve asks the catalog to durably decrement stock. A rejection (missing
// product or insufficient stock at commit time) comes back as a normal
// unreserved result.
func (c *InventoryClient) Reserve(ctx context.Context, productID int64, quantity int) (*product.ReservationResult, error) {
	url := fmt.Sprintf("%s/api/products/%d/reserve", c.base, productID)
	body, status, err := c.put(ctx, url, quantity)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusNotFound:
		return &product.ReservationResult{Reserved: false, Reason: "Product not found"}, nil
	case http.StatusOK, http.StatusConflict:
	default:
		return nil, errors.Errorf("catalog: unexpected status %d", status)
	}

	res, err := decodeReservation(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode reservation result")
	}
	return res, nil
}

// Release returns reserved units to stock. Used only as compensation after a
// failed ledger append; the caller treats failures as best-effort.
func (c *InventoryClient) Release(ctx context.Context, productID int64, quantity int) error {
	url := fmt.Sprintf("%s/api/products/%d/release", c.base, productID)
	_, status, err := c.put(ctx, url, quantity)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errors.Errorf("catalog: release failed with status %d", status)
	}
	return nil
}

func (c *InventoryClient) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	return c.do(req)
}

func (c *InventoryClient) put(ctx context.Context, url string, quantity int) ([]byte, int, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("quantity")
	e.Int(quantity)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(e.Bytes()))
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *InventoryClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "catalog request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, errors.Wrap(err, "read catalog response")
	}
	return body, resp.StatusCode, nil
}

func decodeProduct(data []byte) (*product.Product, error) {
	var p product.Product
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return err
			}
			p.ID = id
		case "name":
			s, err := d.Str()
			if err != nil {
				return err
			}
			p.Name = s
		case "price":
			// Keep the raw number text so 29.99 stays 29.99.
			n, err := d.Num()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(n.String())
			if err != nil {
				return err
			}
			p.Price = price
		case "stock":
			n, err := d.Int()
			if err != nil {
				return err
			}
			p.Stock = n
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeStock(data []byte) (*product.StockResult, error) {
	var res product.StockResult
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "available":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			res.Available = v
		case "stock":
			n, err := d.Int()
			if err != nil {
				return err
			}
			res.Stock = n
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &res, nil
}

func decodeReservation(data []byte) (*product.ReservationResult, error) {
	var res product.ReservationResult
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "reserved":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			res.Reserved = v
		case "remaining_stock":
			n, err := d.Int()
			if err != nil {
				return err
			}
			res.RemainingStock = n
		case "reason":
			s, err := d.Str()
			if err != nil {
				return err
			}
			res.Reason = s
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &res, nil
}
