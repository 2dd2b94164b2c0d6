// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain layer stays free
// of ORM tags; each model converts with ToDomain and XModelFromDomain.
//
// Tables:
//   - wallet_accounts: AccountModel
//   - wallet_ledger_entries: LedgerEntryModel
//   - outbox_events: OutboxEntryModel
package models

// All returns every model, in dependency order, for AutoMigrate in tests and
// local sqlite development. Postgres schemas are managed by SQL migrations.
func All() []any {
	return []any{&AccountModel{}, &LedgerEntryModel{}, &OutboxEntryModel{}}
}
