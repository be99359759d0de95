package ledger

import "github.com/Klingon-tech/mina-indexer/pkg/types"

// AccountCreationFee is the protocol constant deducted from a MINA-token
// account's display balance when it is first created (spec §4.3). It is
// not deducted for non-native tokens.
const AccountCreationFee types.Amount = 1_000_000_000 // 1 MINA in nanomina

// TokenMeta tracks a token's aggregate state, independent of any one
// account.
type TokenMeta struct {
	Token       types.TokenAddress
	Owner       types.PublicKey
	TotalSupply types.Amount
}

// Ledger is token -> (public_key -> Account), per spec §4.3.
type Ledger struct {
	accounts map[types.TokenAddress]map[types.PublicKey]*Account
	tokens   map[types.TokenAddress]*TokenMeta
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[types.TokenAddress]map[types.PublicKey]*Account),
		tokens:   make(map[types.TokenAddress]*TokenMeta),
	}
}

// Clone deep-copies the ledger so a branch node's materialized ledger is
// never aliased with an ancestor's (spec §3, "sibling nodes hold
// independent ledgers").
func (l *Ledger) Clone() *Ledger {
	out := New()
	for token, accts := range l.accounts {
		m := make(map[types.PublicKey]*Account, len(accts))
		for pk, a := range accts {
			m[pk] = a.clone()
		}
		out.accounts[token] = m
	}
	for token, meta := range l.tokens {
		cp := *meta
		out.tokens[token] = &cp
	}
	return out
}

// Account returns the account at (token, pk), or nil if it does not exist.
func (l *Ledger) Account(token types.TokenAddress, pk types.PublicKey) *Account {
	accts, ok := l.accounts[token]
	if !ok {
		return nil
	}
	return accts[pk]
}

// TokenMetaFor returns the metadata for token, creating an empty record
// if none exists yet.
func (l *Ledger) TokenMetaFor(token types.TokenAddress) *TokenMeta {
	meta, ok := l.tokens[token]
	if !ok {
		meta = &TokenMeta{Token: token}
		l.tokens[token] = meta
	}
	return meta
}

func (l *Ledger) ensureBucket(token types.TokenAddress) map[types.PublicKey]*Account {
	accts, ok := l.accounts[token]
	if !ok {
		accts = make(map[types.PublicKey]*Account)
		l.accounts[token] = accts
	}
	return accts
}

// ApplyAccountDiff applies d to the ledger, creating the account first if
// d.CreatesAccount is set.
func (l *Ledger) ApplyAccountDiff(d AccountDiff) error {
	accts := l.ensureBucket(d.Token)
	acct, ok := accts[d.PK]
	if !ok {
		acct = Empty(d.PK, d.Token, d.IsZkappAccount)
		accts[d.PK] = acct
	}
	if err := d.Apply(acct); err != nil {
		return err
	}
	if d.CreationFee > 0 && d.Token.IsMina() {
		if acct.Balance < d.CreationFee {
			return errInsufficientForCreationFee(d.PK, d.CreationFee, acct.Balance)
		}
		acct.Balance -= d.CreationFee
	}
	return nil
}

// UnapplyAccountDiff inverts d. When d.CreatesAccount is set and the
// account's balance returns to exactly zero, the entry is removed
// entirely (spec §4.3, "unapply ... may signal account deletion").
func (l *Ledger) UnapplyAccountDiff(d AccountDiff) error {
	accts := l.ensureBucket(d.Token)
	acct, ok := accts[d.PK]
	if !ok {
		return errAccountNotFound(d.PK, d.Token)
	}
	if d.CreationFee > 0 && d.Token.IsMina() {
		acct.Balance += d.CreationFee
	}
	if err := d.Unapply(acct); err != nil {
		return err
	}
	if d.CreatesAccount && acct.Balance == 0 && acct.Nonce == 0 {
		delete(accts, d.PK)
	}
	return nil
}

// ApplyTokenDiff applies a token-supply or -owner mutation.
func (l *Ledger) ApplyTokenDiff(d TokenDiff) error {
	return d.Apply(l.TokenMetaFor(d.Token))
}

// UnapplyTokenDiff inverts a token-supply or -owner mutation.
func (l *Ledger) UnapplyTokenDiff(d TokenDiff) error {
	return d.Unapply(l.TokenMetaFor(d.Token))
}

// ApplyDiff applies every diff in ld, account diffs in order followed by
// token diffs, returning the first error encountered. On error the ledger
// may be left partially mutated; callers materializing a branch node
// discard the clone rather than trying to repair it.
func (l *Ledger) ApplyDiff(ld *LedgerDiff) error {
	for _, d := range ld.AccountDiffs {
		if err := l.ApplyAccountDiff(d); err != nil {
			return err
		}
	}
	for _, td := range ld.TokenDiffs {
		if err := l.ApplyTokenDiff(td); err != nil {
			return err
		}
	}
	return nil
}

// UnapplyDiff inverts ApplyDiff: token diffs first (LIFO relative to
// Apply), then account diffs in reverse order.
func (l *Ledger) UnapplyDiff(ld *LedgerDiff) error {
	for i := len(ld.TokenDiffs) - 1; i >= 0; i-- {
		if err := l.UnapplyTokenDiff(ld.TokenDiffs[i]); err != nil {
			return err
		}
	}
	for i := len(ld.AccountDiffs) - 1; i >= 0; i-- {
		if err := l.UnapplyAccountDiff(ld.AccountDiffs[i]); err != nil {
			return err
		}
	}
	return nil
}

// TotalMinaSupply sums the MINA-token balances across all accounts, used
// by the testable property "sum of MINA-token balances = tracked total
// currency minus burns" (spec §3).
func (l *Ledger) TotalMinaSupply() types.Amount {
	var total uint64
	for pk, acct := range l.accounts[types.MinaTokenAddress] {
		_ = pk
		total += uint64(acct.Balance)
	}
	return types.Amount(total)
}

// ForEachAccount visits every account in token, in unspecified order.
func (l *Ledger) ForEachAccount(token types.TokenAddress, fn func(*Account)) {
	for _, a := range l.accounts[token] {
		fn(a)
	}
}
