package domain

import "time"

// BlacklistEntry marks a wallet as suspended by an operator.
type BlacklistEntry struct {
	ID        string
	WalletID  string
	Reason    string
	CreatedAt time.Time
}

// SuspendedReason is reported for blacklisted wallets.
const SuspendedReason = "Operation denied: wallet is suspended."
