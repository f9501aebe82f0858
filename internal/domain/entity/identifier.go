package entity

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// Account identifies a token holder
type Account = common.Address

// Reason is the 32-byte tag that distinguishes independent lock slots of one account
type Reason = common.Hash

// ReasonLength is the fixed size of a lock reason in bytes
const ReasonLength = common.HashLength

// ParseAccount parses a 0x-prefixed hex address
func ParseAccount(s string) (Account, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return Account{}, fmt.Errorf("%w: %q", errs.ErrInvalidAccount, s)
	}
	return common.HexToAddress(s), nil
}

// ParseReason converts a textual or hex tag to a Reason
// Text such as "GOV" is stored left-aligned and zero padded, the way a
// bytes32 literal is laid out. Input starting with 0x is decoded as hex.
func ParseReason(s string) (Reason, error) {
	var reason Reason

	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return reason, fmt.Errorf("%w: empty value", errs.ErrInvalidReason)
	}

	raw := []byte(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		decoded, err := hexutil.Decode("0x" + s[2:])
		if err != nil {
			return reason, fmt.Errorf("%w: %s", errs.ErrInvalidReason, err.Error())
		}
		raw = decoded
	}

	if len(raw) == 0 || len(raw) > ReasonLength {
		return reason, fmt.Errorf("%w: must be 1 to %d bytes", errs.ErrInvalidReason, ReasonLength)
	}

	copy(reason[:], raw)
	return reason, nil
}

// ReasonString renders a reason as text when it holds a printable tag and as hex otherwise
func ReasonString(reason Reason) string {
	trimmed := strings.TrimRight(string(reason[:]), "\x00")
	if trimmed == "" {
		return reason.Hex()
	}
	for _, r := range trimmed {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return reason.Hex()
		}
	}
	return trimmed
}
