// Package model defines the workflow graph representation shared by the
// engine, the DAO layer and the node executors: workflows, nodes, edges and
// the node-type/trigger-kind discriminants.
package model
