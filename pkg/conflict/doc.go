// Package conflict renders the overlap graph of a laid-out track.
//
// Every visible feature becomes a node, labelled with its name and the
// column it was assigned, and filled with a colour keyed to that column.
// Two nodes are joined when their extents overlap, so a valid layout never
// shows an edge between two nodes of the same colour.
//
// The graph is emitted as Graphviz DOT by [ToDOT] and can be turned into SVG
// in-process with [RenderSVG], which uses [github.com/goccy/go-graphviz].
package conflict
