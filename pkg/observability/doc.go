/*
Package observability turns controller lifecycle hooks into Prometheus metrics
and structured log lines.
*/
package observability
