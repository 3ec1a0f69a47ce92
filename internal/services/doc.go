// Package services holds the error taxonomy and context conventions shared by
// every metadata source client and the aggregator.
//
// The sentinel errors classify source failures: authentication failures
// (ErrAuth) are catastrophic for an adapter and drive self-disable behavior,
// while transient failures degrade a single call to "no results." Clients tag
// HTTP responses with the appropriate sentinel via Wrap so callers can
// classify with errors.Is without parsing messages.
//
// The context helpers carry the per-request correlation identifier and the
// active source name so log lines from concurrent fan-outs stay attributable.
package services
