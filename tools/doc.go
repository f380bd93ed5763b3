// Package tools defines the adapter surface for external evidence
// sources invoked on agentic routes. Price comparison and financial
// information routes call an Adapter instead of the vault; adapters
// report structured failures so the request pipeline can degrade
// rather than abort.
package tools
