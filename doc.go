// Package runlet is a workflow execution engine. Users assemble directed
// graphs of trigger and action nodes; an inbound event activates a run, the
// engine linearizes the graph and dispatches each node's executor in order,
// threading an accumulating context between them. Effects run inside durable
// step boundaries so that retried runs never repeat committed work, and node
// lifecycle transitions stream to live subscribers over per-category
// broadcast channels.
package runlet
