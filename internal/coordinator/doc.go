// Package coordinator owns the currently displayed video. It turns user or
// clipboard input into thumbnail and page resolutions and drops results of
// any resolution that has been superseded.
package coordinator
