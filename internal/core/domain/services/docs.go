// Package services contains domain services of the dispatch application.
//
// CashSettlement implements the cash-on-delivery settlement policy: it turns
// a delivered COD order into a cross-linked dual-entry ledger pair and later
// settles both sides of a pair when the driver remits the collected cash.
// The service is stateless; persistence of the aggregates it touches is the
// caller's responsibility.
package services
