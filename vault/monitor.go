package vault

import "github.com/poiesic/vaultqa/core"

// RetrievalMonitor provides hooks to observe the retrieval pipeline.
// Implement this interface to track intermediate stages during retrieval.
type RetrievalMonitor interface {
	Start(tenantID, userID, query string)
	AfterEmbedding(dim int)
	AfterScopedSearch(candidates []Candidate)
	AfterDiversitySelection(selected []Candidate)
	AfterRerank(scores []float32)
	ChunkDropped(chunk *core.VaultChunk, reason string)
	Finish(result *core.RetrievalResult)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _, _ string)                      {}
func (n *noopMonitor) AfterEmbedding(_ int)                      {}
func (n *noopMonitor) AfterScopedSearch(_ []Candidate)           {}
func (n *noopMonitor) AfterDiversitySelection(_ []Candidate)     {}
func (n *noopMonitor) AfterRerank(_ []float32)                   {}
func (n *noopMonitor) ChunkDropped(_ *core.VaultChunk, _ string) {}
func (n *noopMonitor) Finish(_ *core.RetrievalResult)            {}
