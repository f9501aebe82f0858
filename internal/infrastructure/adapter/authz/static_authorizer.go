package authz

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
)

// StaticAuthorizer grants the locking role to a fixed set of addresses
// An empty set denies every caller.
type StaticAuthorizer struct {
	allowed map[common.Address]struct{}
}

var _ core.Authorizer = (*StaticAuthorizer)(nil)

// NewStaticAuthorizer parses the configured caller addresses
func NewStaticAuthorizer(callers []string) (*StaticAuthorizer, error) {
	allowed := make(map[common.Address]struct{}, len(callers))
	for _, caller := range callers {
		account, err := entity.ParseAccount(caller)
		if err != nil {
			return nil, fmt.Errorf("invalid authorized caller: %w", err)
		}
		allowed[account] = struct{}{}
	}
	return &StaticAuthorizer{allowed: allowed}, nil
}

// IsAuthorized reports whether caller is in the allow-list
func (a *StaticAuthorizer) IsAuthorized(_ context.Context, caller common.Address) (bool, error) {
	_, ok := a.allowed[caller]
	return ok, nil
}

// Size returns the number of authorized callers
func (a *StaticAuthorizer) Size() int {
	return len(a.allowed)
}
