/*
Package observability provides monitoring for the analysis panel.

It exposes Prometheus collectors for file opens, classification results and
traversal latency, and builds lifecycle hooks that feed those collectors and a
structured logger.
*/
package observability
