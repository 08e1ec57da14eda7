// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [TableWriter]: submits one batch of put requests to a table
//   - [ReportRepository]: persists and loads run reports
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with DynamoDB
// and the local file system; tests substitute mocks.
package ports
