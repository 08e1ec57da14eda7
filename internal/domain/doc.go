// Package domain contains the core entities of txnload.
//
// This package has no dependencies on infrastructure concerns (AWS, file
// system, logging). The only third-party type it exposes is
// [decimal.Decimal], which is the exact numeric form stored in the table.
//
// # Entities
//
//   - [Value]: a tagged JSON value (null, string, bool, number, list, map)
//   - [Record]: an ordered set of named values read from the input file
//   - [PutRequest]: a formatted record tagged as an insert for batch writes
//   - [Batch]: up to 25 put requests submitted in one call
//   - [RunReport]: the outcome of one import run, per batch
package domain
