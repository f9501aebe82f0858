package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Authorizer decides whether a caller holds the privileged locking role
type Authorizer interface {
	// IsAuthorized reports whether caller may lock, extend, increase and unlock tokens
	IsAuthorized(ctx context.Context, caller common.Address) (bool, error)
}
