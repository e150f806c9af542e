// Package importer turns user-facing import choices into a loaded, optionally
// interpolated time series table.
//
// It is independent of any transport: HTTP handlers and the CLI build an
// [ImportOptions] value from their own input and hand it over.
//
// # Pipeline
//
//  1. [Resolve] translates [ImportOptions] into a [tabular.Config].
//  2. [Resolver.LoadWithInterpolation] delegates the read to a [Loader].
//  3. On success, if interpolation was requested, missing cells are counted
//     and interior gaps are filled linearly column by column.
//
// Load failures come back inside [LoadResult] and stop the pipeline; nothing
// in this package panics or retries. "No missing values" is an informational
// [LoadResult.Notice], not an error.
//
// # Error Handling
//
// [MapError] converts load errors into [UserMessage] values with IMP codes
// that transports show to users.
package importer
