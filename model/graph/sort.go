// Package graph linearizes a workflow's node/edge structure. The sort is a
// Kahn-style dependency ordering: for every edge (u,v) u precedes v in the
// output. Nodes without any incident edge are retained by a post-processing
// pass rather than by mutating the caller's edge list.
package graph

import (
	"github.com/runlet/runlet/model"
	"github.com/runlet/runlet/model/types"
)

// TopologicalSort returns the workflow nodes in dependency order. A cycle
// anywhere in the edge list aborts with a *types.GraphError before any node
// can execute; the error is non-retriable since re-running cannot uncycle a
// graph. The relative order of independent nodes is unspecified.
func TopologicalSort(nodes []*model.Node, edges []*model.Edge) ([]*model.Node, error) {
	if len(edges) == 0 {
		// All nodes are independent; list order is as good as any.
		return nodes, nil
	}

	inDegree := map[string]int{}
	successors := map[string][]string{}
	for _, edge := range edges {
		successors[edge.FromNodeID] = append(successors[edge.FromNodeID], edge.ToNodeID)
		inDegree[edge.ToNodeID]++
		if _, ok := inDegree[edge.FromNodeID]; !ok {
			inDegree[edge.FromNodeID] = 0
		}
	}

	var queue []string
	for _, node := range nodes {
		if degree, ok := inDegree[node.ID]; ok && degree == 0 {
			queue = append(queue, node.ID)
		}
	}

	var sortedIDs []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sortedIDs = append(sortedIDs, id)
		for _, next := range successors[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sortedIDs) < len(inDegree) {
		return nil, types.NewGraphError("workflow contains a cycle")
	}

	byID := map[string]*model.Node{}
	for _, node := range nodes {
		byID[node.ID] = node
	}
	var sorted []*model.Node
	for _, id := range sortedIDs {
		if node, ok := byID[id]; ok {
			sorted = append(sorted, node)
		}
	}
	return ensureAllNodes(sorted, nodes), nil
}

// ensureAllNodes appends nodes that carry no edges so that every node appears
// exactly once in the output. Disconnected nodes still run - they just have
// no ordering constraint relative to the rest of the graph.
func ensureAllNodes(sorted, all []*model.Node) []*model.Node {
	present := map[string]bool{}
	for _, node := range sorted {
		present[node.ID] = true
	}
	for _, node := range all {
		if !present[node.ID] {
			present[node.ID] = true
			sorted = append(sorted, node)
		}
	}
	return sorted
}
