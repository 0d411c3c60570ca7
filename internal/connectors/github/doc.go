// Package github fetches repository documentation content: raw files,
// code search, branch resolution. All network paths go through a dual
// rate-limiting strategy (proactive token bucket plus reactive header
// tracking) and bounded retry with backoff.
package github
