/*
Package observability provides monitoring for observed trees.

Metrics turns lifecycle hooks and change events into Prometheus counters, and
ChainHooks lets those hooks run next to application-specific ones (audit
logging, tracing).
*/
package observability
