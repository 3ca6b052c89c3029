// Package finding reads static-analysis scan output and turns each failed
// check into the pieces a tracker ticket is built from.
//
// [Parse] accepts the scanner's JSON document (either an array of framework
// reports, of which the first is used, or a single bare report) and returns
// validated [Finding] values in input order. Missing required fields are
// reported as an [*InputError] naming the offending record and field.
//
// [FingerprintOf] derives a salted digest over project, check name, and file
// path. Line numbers and code content are deliberately excluded, so a
// finding keeps its identity when unrelated edits shift it around the file.
//
// The normalizer helpers ([DeriveProject], [SafeTitle], [RenderSnippet],
// [RenderDescription], [StripFence]) produce the ticket title and body. The
// fingerprint is written as the last line of the body, which is what the
// tracker search later matches on.
package finding
