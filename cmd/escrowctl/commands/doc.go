// Package commands defines the escrowctl operator CLI.
//
// Commands
//
//   - migrate        Create the DynamoDB tables or apply SQLite migrations
//   - quote          Price a service offline from flags
//   - statement      Print an account's statement rows as CSV
//   - verify-ledger  Check stored balances against the transaction log
//   - relay          Run the outbox relay and the decision consumer
//
// Configuration is read from the environment (and .env) exactly like the
// HTTP service. Logs go to stderr so command output can be piped.
package commands
