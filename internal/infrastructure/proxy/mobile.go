// Package proxy rotates the egress IP of a mobile proxy by calling its
// provider rotation link.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/core/ports"
)

// rotation takes a few seconds on most providers before the new IP is live
const settleDelay = 5 * time.Second

type mobileRotator struct {
	changeLink string
	client     *http.Client
}

// NewMobileRotator returns a ports.IPRotator hitting the given rotation link.
func NewMobileRotator(changeLink string) ports.IPRotator {
	return &mobileRotator{
		changeLink: changeLink,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *mobileRotator) Rotate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, r.changeLink, nil,
	)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("rotating mobile proxy ip: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mobile proxy rotation returned status %d", resp.StatusCode)
	}

	log.Debug("mobile proxy ip rotated")
	select {
	case <-time.After(settleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
