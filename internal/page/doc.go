// Package page resolves metadata from a video watch page. Resolve is cheap;
// the page is downloaded at most once, on the first field access, and every
// field is extracted at most once from that shared document. A failed field
// never affects the others.
package page
