// Package client holds the gateway's views of the CRUD services and the identity provider.
package client

import (
	"context"

	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
)

// Upstream is one CRUD service behind the gateway
type Upstream interface {
	Name() string
	Do(ctx context.Context, method, path string, opts svcclient.Options) (*svcclient.Response, error)
	AsError(resp *svcclient.Response) error
}

var _ Upstream = (*svcclient.Client)(nil)
