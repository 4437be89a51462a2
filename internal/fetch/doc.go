// Package fetch performs the plain HTTPS GETs used by the resolvers: one
// request per call, a fixed per-request timeout, browser-like headers and
// optional download progress reporting. It never retries.
package fetch
