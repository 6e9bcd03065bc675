// Package client contains the HTTP clients for the two remote collaborators:
// the user directory service and the product catalog service.
//
// Both clients translate remote responses into domain verdicts. Business
// rejections (unknown user, missing product, insufficient stock) come back as
// normal result values; only transport problems (connection failures,
// timeouts, unexpected statuses, malformed bodies) are returned as errors,
// which the orchestrator maps to DependencyUnavailable.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ordersvc/fulfillment/internal/domain/user"
)

// maxBodyBytes caps how much of a collaborator response we are willing to
// read.
const maxBodyBytes = 1 << 20

var _ user.Directory = (*DirectoryClient)(nil)

// DirectoryClient calls the user directory service over HTTP.
type DirectoryClient struct {
	base string
	http *http.Client
}

// NewDirectoryClient creates a client for the directory service at baseURL.
// Timeout enforcement lives here, at the transport layer; the orchestrator
// never retries or times out calls itself.
func NewDirectoryClient(baseURL string, timeout time.Duration) *DirectoryClient {
	return &DirectoryClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Validate asks the directory whether the user exists and is active. An
// unknown user (404) is a negative verdict, not an error.
func (c *DirectoryClient) Validate(ctx context.Context, userID int64) (*user.ValidationResult, error) {
	url := fmt.Sprintf("%s/api/users/%d/validate", c.base, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "directory request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, errors.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read directory response")
	}

	res, err := decodeValidation(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode directory response")
	}
	return res, nil
}

func decodeValidation(data []byte) (*user.ValidationResult, error) {
	var res user.ValidationResult
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "valid":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			res.Valid = v
		case "reason":
			s, err := d.Str()
			if err != nil {
				return err
			}
			res.Reason = s
		case "user":
			u, err := decodeUser(d)
			if err != nil {
				return err
			}
			res.User = u
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &res, nil
}

func decodeUser(d *jx.Decoder) (*user.User, error) {
	var u user.User
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return err
			}
			u.ID = id
		case "name":
			s, err := d.Str()
			if err != nil {
				return err
			}
			u.Name = s
		case "email":
			s, err := d.Str()
			if err != nil {
				return err
			}
			u.Email = s
		case "active":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			u.Active = v
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &u, nil
}
