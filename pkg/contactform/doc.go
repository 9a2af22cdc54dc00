// Package contactform is the client side of the contact pipeline: a form
// controller that owns the draft, per-field errors and the submission
// status, plus the HTTP transport that delivers a validated draft to
// POST /api/contact.
//
// Status moves idle -> loading -> success|error, and success/error fall
// back to idle on their own after the reset delay. A successful submit
// clears the draft when that happens; a failed one keeps it for a manual
// retry. Nothing is retried automatically.
package contactform
