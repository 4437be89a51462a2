// Package clipboard watches the system clipboard through a viewer chain.
//
// A Watcher is a small state machine fed by HandleMessage. Hosts adapt the
// platform notification source: on Windows the watcher joins the classic
// clipboard viewer chain, elsewhere clipboard change notifications are
// translated into the same draw messages with an empty successor.
package clipboard
