// Package output renders a reconciliation run for the console or for
// machine consumption.
//
// Two formats are supported:
//   - text: the console report: every buffered finding with its title and
//     body (code fences stripped), or a one-line success message
//   - json: the full run summary, including filed ticket pairs
//
// Use [GetWriter] to obtain a [Writer] for a format string and [WriteReport]
// to send a [*Report] to a file or stdout.
package output
