package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

const maxCatalogBody = 8 << 20

// ErrBodyTooLarge is returned when the catalog response exceeds the read limit.
var ErrBodyTooLarge = errors.New("catalog body too large")

// StatusError reports a non-2xx response from the remote catalog.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote catalog: unexpected status %d", e.StatusCode)
}

// RemoteProvider fetches products from a fakestoreapi-compatible service.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewRemoteProvider builds a provider for baseURL. A zero timeout leaves the
// request bounded only by the caller's context.
func NewRemoteProvider(baseURL string, timeout time.Duration, logger zerolog.Logger) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Products performs GET <base>/products. Malformed records are logged and
// skipped; a malformed payload or transport failure fails the fetch.
func (r *RemoteProvider) Products(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBody+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	if len(body) > maxCatalogBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, maxCatalogBody)
	}

	products, err := ParseProducts(body)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) && perr.Index < 0 {
			return nil, err
		}
		r.logger.Warn().Err(err).Int("kept", len(products)).Msg("catalog: skipped malformed records")
	}
	r.logger.Debug().Int("count", len(products)).Str("url", r.baseURL).Msg("catalog: fetched")
	return products, nil
}
