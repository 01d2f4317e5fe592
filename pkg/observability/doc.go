/*
Package observability provides tools for monitoring the botforge generator.

It includes Prometheus collectors for generation passes (count by outcome,
duration, node count and cache hits) and the GenerationHooks that feed them.
*/
package observability
