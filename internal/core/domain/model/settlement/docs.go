// Package settlement contains the dual-entry cash ledger aggregates.
//
// Every delivered cash-on-delivery order produces exactly one
// DriverTransaction (cash the driver carries) and one VendorTransaction (cash
// the vendor is owed), cross-linked and carrying the same net amount. The
// remittance workflow settles both sides together and is idempotent: a second
// remittance of the same pair is rejected, never re-applied.
//
// Wallet and WalletEntry implement the same ledger discipline for
// admin-adjustable balances: the balance only moves through signed,
// reason-carrying adjustment entries.
package settlement
