package ledger

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

func errInsufficientForCreationFee(pk types.PublicKey, fee, balance types.Amount) error {
	return fmt.Errorf("ledger: account %s cannot cover creation fee %s from balance %s", pk, fee, balance)
}

func errAccountNotFound(pk types.PublicKey, token types.TokenAddress) error {
	return fmt.Errorf("ledger: no account (%s, %s) to unapply diff against", pk, token)
}
