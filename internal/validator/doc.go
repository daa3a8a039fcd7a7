// Package validator collects content problems into a single report.
//
// Entry failures from collection processing, config load errors and
// collection warnings are turned into [Issue] values carrying their source
// location, aggregated into a [Result] and written by a [Reporter] as
// colored text or JSON.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes between blocking errors and non-blocking warnings.
//   - [Issue]: A single problem with collection, entry and file location.
//   - [Result]: Aggregates issues and entry counts.
//
// # Basic Usage
//
//	result := validator.FromResults(results)
//	if result.HasErrors() {
//		// handle validation failure
//	}
package validator
