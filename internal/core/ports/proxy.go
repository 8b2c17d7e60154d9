package ports

import "context"

// IPRotator swaps the egress IP before a new account session is opened,
// typically by hitting a mobile proxy rotation link.
type IPRotator interface {
	Rotate(ctx context.Context) error
}
