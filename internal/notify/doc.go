// Package notify delivers derived narratives to external collaborators.
//
// The production sink composes a ticket-tracker client (comments and card
// moves), a chat webhook, and a media-server refresh hook. Unconfigured
// collaborators degrade to no-ops, and the tracker can be suppressed outright
// via config or the BEHOLDER_DISABLE_TRACKER environment toggle. All handler
// code depends only on the Sink interface.
package notify
