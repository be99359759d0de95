package ledger

import (
	"fmt"

	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// DiffKind tags an AccountDiff's variant. Each variant carries only the
// payload it needs; Apply/Unapply dispatch on this tag rather than on a
// type hierarchy (spec §9, "represent as a tagged variant").
type DiffKind uint8

const (
	DiffPayment DiffKind = iota
	DiffDelegation
	DiffFailedTransactionNonce
	DiffCoinbase
	DiffFeeTransferViaCoinbase
	DiffFeeTransfer
	DiffZkappState
	DiffZkappPermissions
	DiffZkappVerificationKey
	DiffZkappURI
	DiffZkappTokenSymbol
	DiffZkappTiming
	DiffZkappVotingFor
	DiffZkappProvedState
	DiffZkappIncrementNonce
	DiffZkappFeePayerNonce
	DiffZkappPayment
	DiffZkappActions
	DiffZkappEvents
)

// AccountDiff is one invertible mutation of a single (public_key, token)
// account, produced by translating a block's staged-ledger diff (see
// FromBlock in translate.go).
type AccountDiff struct {
	Kind      DiffKind
	PK        types.PublicKey
	Token     types.TokenAddress
	StateHash types.StateHash

	// AmountDelta is a signed nanomina delta for balance-affecting kinds
	// (Payment, Coinbase, FeeTransfer*, ZkappPayment): positive credits,
	// negative debits.
	AmountDelta int64

	// NonceBefore/NonceAfter apply to the nonce-affecting kinds (the
	// debit side of Payment, FailedTransactionNonce, ZkappIncrementNonce,
	// ZkappFeePayerNonce).
	NonceBefore types.Nonce
	NonceAfter  types.Nonce

	// DelegateBefore/DelegateAfter apply to DiffDelegation.
	DelegateBefore types.PublicKey
	DelegateAfter  types.PublicKey

	// StringBefore/StringAfter apply to the single-value zkapp field
	// diffs: VerificationKey, URI, TokenSymbol, VotingFor.
	StringBefore string
	StringAfter  string

	// BlobBefore/BlobAfter apply to the list-valued zkapp field diffs:
	// State (app state), Permissions, Actions, Events.
	BlobBefore []string
	BlobAfter  []string

	// TimingBefore/TimingAfter apply to DiffZkappTiming. A nil Timing
	// means "no lock".
	TimingBefore *Timing
	TimingAfter  *Timing

	// ProvedStateBefore/After apply to DiffZkappProvedState.
	ProvedStateBefore bool
	ProvedStateAfter  bool

	// CreatesAccount is set when applying this diff is what brought the
	// account into existence; the ledger consults it on unapply to know
	// whether to delete the entry rather than merely revert a field.
	CreatesAccount bool
	CreationFee    types.Amount
	IsZkappAccount bool
}

// PublicKey returns the affected account's public key.
func (d AccountDiff) PublicKeyOf() types.PublicKey { return d.PK }

// TokenOf returns the affected account's token.
func (d AccountDiff) TokenOf() types.TokenAddress { return d.Token }

// IsZkappDiff reports whether this diff mutates zkapp-only state.
func (d AccountDiff) IsZkappDiff() bool {
	switch d.Kind {
	case DiffZkappState, DiffZkappPermissions, DiffZkappVerificationKey,
		DiffZkappURI, DiffZkappTokenSymbol, DiffZkappTiming, DiffZkappVotingFor,
		DiffZkappProvedState, DiffZkappIncrementNonce, DiffZkappFeePayerNonce,
		DiffZkappPayment, DiffZkappActions, DiffZkappEvents:
		return true
	default:
		return false
	}
}

// Apply mutates acct to reflect d, in place. acct must already be keyed to
// (d.PK, d.Token); callers create it via Empty first when CreatesAccount is
// set.
func (d AccountDiff) Apply(acct *Account) error {
	switch d.Kind {
	case DiffPayment, DiffCoinbase, DiffFeeTransferViaCoinbase, DiffFeeTransfer, DiffZkappPayment:
		if err := applyAmount(acct, d.AmountDelta); err != nil {
			return err
		}
		if d.NonceAfter != 0 || d.NonceBefore != 0 {
			if acct.Nonce != d.NonceBefore {
				return fmt.Errorf("ledger: nonce mismatch applying %v to %s: have %d, diff expects %d", d.Kind, d.PK, acct.Nonce, d.NonceBefore)
			}
			acct.Nonce = d.NonceAfter
		}
	case DiffFailedTransactionNonce:
		if acct.Nonce != d.NonceBefore {
			return fmt.Errorf("ledger: nonce mismatch applying failed-txn nonce bump to %s: have %d, diff expects %d", acct.PK(), acct.Nonce, d.NonceBefore)
		}
		acct.Nonce = d.NonceAfter
	case DiffDelegation:
		acct.Delegate = d.DelegateAfter
	case DiffZkappVerificationKey:
		acct.requireZkapp().VerificationKey = d.StringAfter
	case DiffZkappURI:
		acct.requireZkapp().ZkappURI = d.StringAfter
	case DiffZkappTokenSymbol:
		acct.requireZkapp().TokenSymbol = d.StringAfter
	case DiffZkappVotingFor:
		acct.requireZkapp().VotingFor = d.StringAfter
	case DiffZkappState:
		acct.requireZkapp().AppState = append([]string(nil), d.BlobAfter...)
	case DiffZkappPermissions:
		acct.requireZkapp().Permissions = append([]string(nil), d.BlobAfter...)
	case DiffZkappActions:
		acct.requireZkapp().ActionState = append([]string(nil), d.BlobAfter...)
	case DiffZkappEvents:
		acct.requireZkapp().Events = append([]string(nil), d.BlobAfter...)
	case DiffZkappTiming:
		if d.TimingAfter == nil {
			acct.Timing = nil
		} else {
			t := *d.TimingAfter
			acct.Timing = &t
		}
	case DiffZkappProvedState:
		acct.requireZkapp().ProvedState = d.ProvedStateAfter
	case DiffZkappIncrementNonce, DiffZkappFeePayerNonce:
		if acct.Nonce != d.NonceBefore {
			return fmt.Errorf("ledger: nonce mismatch applying %v to %s: have %d, diff expects %d", d.Kind, acct.PK(), acct.Nonce, d.NonceBefore)
		}
		acct.Nonce = d.NonceAfter
	default:
		return fmt.Errorf("ledger: unknown diff kind %d", d.Kind)
	}
	return nil
}

// Unapply is the exact inverse of Apply: unapply(apply(x)) = x for any
// diff produced from a validly applied block (spec §8 property 3).
func (d AccountDiff) Unapply(acct *Account) error {
	switch d.Kind {
	case DiffPayment, DiffCoinbase, DiffFeeTransferViaCoinbase, DiffFeeTransfer, DiffZkappPayment:
		if err := applyAmount(acct, -d.AmountDelta); err != nil {
			return err
		}
		if d.NonceAfter != 0 || d.NonceBefore != 0 {
			acct.Nonce = d.NonceBefore
		}
	case DiffFailedTransactionNonce:
		acct.Nonce = d.NonceBefore
	case DiffDelegation:
		acct.Delegate = d.DelegateBefore
	case DiffZkappVerificationKey:
		acct.requireZkapp().VerificationKey = d.StringBefore
	case DiffZkappURI:
		acct.requireZkapp().ZkappURI = d.StringBefore
	case DiffZkappTokenSymbol:
		acct.requireZkapp().TokenSymbol = d.StringBefore
	case DiffZkappVotingFor:
		acct.requireZkapp().VotingFor = d.StringBefore
	case DiffZkappState:
		acct.requireZkapp().AppState = append([]string(nil), d.BlobBefore...)
	case DiffZkappPermissions:
		acct.requireZkapp().Permissions = append([]string(nil), d.BlobBefore...)
	case DiffZkappActions:
		acct.requireZkapp().ActionState = append([]string(nil), d.BlobBefore...)
	case DiffZkappEvents:
		acct.requireZkapp().Events = append([]string(nil), d.BlobBefore...)
	case DiffZkappTiming:
		if d.TimingBefore == nil {
			acct.Timing = nil
		} else {
			t := *d.TimingBefore
			acct.Timing = &t
		}
	case DiffZkappProvedState:
		acct.requireZkapp().ProvedState = d.ProvedStateBefore
	case DiffZkappIncrementNonce, DiffZkappFeePayerNonce:
		acct.Nonce = d.NonceBefore
	default:
		return fmt.Errorf("ledger: unknown diff kind %d", d.Kind)
	}
	return nil
}

func applyAmount(acct *Account, delta int64) error {
	if delta >= 0 {
		acct.Balance += types.Balance(delta)
		return nil
	}
	dec := types.Balance(-delta)
	if dec > acct.Balance {
		return fmt.Errorf("ledger: debit %d exceeds balance %d for %s", dec, acct.Balance, acct.PK())
	}
	acct.Balance -= dec
	return nil
}

// PK is a short accessor used in diff error messages.
func (a *Account) PK() types.PublicKey { return a.PublicKey }

func (a *Account) requireZkapp() *ZkappState {
	if a.Zkapp == nil {
		a.Zkapp = &ZkappState{}
	}
	return a.Zkapp
}

// TokenDiffKind tags a TokenDiff's variant.
type TokenDiffKind uint8

const (
	TokenDiffSupply TokenDiffKind = iota
	TokenDiffOwner
)

// TokenDiff mutates a token's supply or owner, the token-scoped analogue
// of AccountDiff (supplemented from original_source's token ledger).
type TokenDiff struct {
	Kind         TokenDiffKind
	Token        types.TokenAddress
	SupplyDelta  int64
	OwnerBefore  types.PublicKey
	OwnerAfter   types.PublicKey
}

// Apply mutates meta in place.
func (d TokenDiff) Apply(meta *TokenMeta) error {
	switch d.Kind {
	case TokenDiffSupply:
		if d.SupplyDelta < 0 && types.Amount(-d.SupplyDelta) > meta.TotalSupply {
			return fmt.Errorf("ledger: token %s supply would go negative", d.Token)
		}
		if d.SupplyDelta >= 0 {
			meta.TotalSupply += types.Amount(d.SupplyDelta)
		} else {
			meta.TotalSupply -= types.Amount(-d.SupplyDelta)
		}
	case TokenDiffOwner:
		meta.Owner = d.OwnerAfter
	default:
		return fmt.Errorf("ledger: unknown token diff kind %d", d.Kind)
	}
	return nil
}

// Unapply is the inverse of Apply.
func (d TokenDiff) Unapply(meta *TokenMeta) error {
	inv := d
	inv.SupplyDelta = -d.SupplyDelta
	inv.OwnerAfter = d.OwnerBefore
	return inv.Apply(meta)
}

// LedgerDiff is the full set of mutations one block's staged-ledger diff
// produces.
type LedgerDiff struct {
	StateHash       types.StateHash
	AccountDiffs    []AccountDiff
	TokenDiffs      []TokenDiff
	NewPkBalances   map[types.PublicKey]types.Balance
}
