package vault

// maxMarginalRelevance selects up to k candidates balancing relevance to
// the query against redundancy with already selected chunks. Each step
// picks the candidate maximizing
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// so lambda=1 degenerates to plain similarity ranking and lambda=0 to
// maximum diversity. Candidates must already be sorted by relevance.
func maxMarginalRelevance(candidates []Candidate, lambda float32, k int) []Candidate {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= k && lambda >= 1 {
		return candidates
	}

	selected := make([]Candidate, 0, k)
	remaining := make([]Candidate, len(candidates))
	copy(remaining, candidates)

	// The most relevant candidate is always picked first.
	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		var bestScore float32
		for i, cand := range remaining {
			var maxSim float32
			for _, sel := range selected {
				sim := cosineSimilarity(cand.Chunk.Vector, sel.Chunk.Vector)
				if sim > maxSim {
					maxSim = sim
				}
			}
			score := lambda*cand.Score - (1-lambda)*maxSim
			if bestIdx == -1 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}
