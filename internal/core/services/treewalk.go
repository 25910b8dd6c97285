package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/logger"
)

// walkFrame is one node on the current DFS path and the position of the
// next neighbour to try from it.
type walkFrame struct {
	node   int
	cursor int
}

// cancelCheckInterval is how many frame pushes pass between context checks.
const cancelCheckInterval = 1024

// LongestChain returns the longest simple path through the graph whose
// nodes are ids and whose edges are given by linked. The result holds
// indexes into ids.
//
// The search is a depth-first walk with backtracking on an explicit stack.
// Start nodes and neighbours are tried in ascending id order and the best
// path is only replaced by a strictly longer one, so among equally long
// paths the lexicographically smallest id sequence wins. maxDepth > 0 caps
// the path length.
//
// Branches that cannot beat the best path are pruned: a start node is
// skipped once the best path is as long as its connected component, and a
// neighbour is skipped when the nodes still reachable through it cannot
// make the path strictly longer. The context is checked while searching.
//
// An empty graph yields an empty path; a graph without edges yields the
// single node with the smallest id.
func LongestChain(ctx context.Context, ids []string, linked func(i, j int) bool, maxDepth int) ([]int, error) {
	if len(ids) == 0 {
		return []int{}, nil
	}

	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return ids[order[a]] < ids[order[b]] })

	adj := make([][]int, len(ids))
	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, err)
		}
		for _, j := range order {
			if i != j && linked(i, j) {
				adj[i] = append(adj[i], j)
			}
		}
	}
	component := componentSizes(adj)

	limit := len(ids)
	if maxDepth > 0 && maxDepth < limit {
		limit = maxDepth
	}

	visited := make([]bool, len(ids))
	reach := newReachCounter(len(ids))
	var best []int
	pushes := 0

	for _, start := range order {
		target := min(component[start], limit)
		if len(best) >= target {
			continue
		}

		path := []int{start}
		visited[start] = true
		stack := []walkFrame{{node: start}}
		if len(path) > len(best) {
			best = append([]int(nil), path...)
		}

		for len(stack) > 0 && len(best) < target {
			top := &stack[len(stack)-1]
			advanced := false
			for len(path) < limit && top.cursor < len(adj[top.node]) {
				next := adj[top.node][top.cursor]
				top.cursor++
				if visited[next] {
					continue
				}
				if len(path) < len(best) && len(path)+reach.count(adj, visited, next) <= len(best) {
					continue
				}

				pushes++
				if pushes%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return nil, fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, err)
					}
				}

				visited[next] = true
				path = append(path, next)
				stack = append(stack, walkFrame{node: next})
				if len(path) > len(best) {
					best = append([]int(nil), path...)
				}
				advanced = true
				break
			}
			if !advanced {
				visited[top.node] = false
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
			}
		}

		for _, f := range stack {
			visited[f.node] = false
		}
		if len(best) >= limit {
			break
		}
	}

	return best, nil
}

// componentSizes returns, for every node, the size of its connected component.
func componentSizes(adj [][]int) []int {
	sizes := make([]int, len(adj))
	label := make([]int, len(adj))
	for i := range label {
		label[i] = -1
	}

	var queue []int
	for root := range adj {
		if label[root] >= 0 {
			continue
		}
		members := []int{root}
		label[root] = root
		queue = append(queue[:0], root)
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			for _, next := range adj[node] {
				if label[next] < 0 {
					label[next] = root
					members = append(members, next)
					queue = append(queue, next)
				}
			}
		}
		for _, m := range members {
			sizes[m] = len(members)
		}
	}
	return sizes
}

// reachCounter counts the unvisited nodes reachable from a node. Its
// buffers are reused between calls.
type reachCounter struct {
	seen  []int
	epoch int
	queue []int
}

func newReachCounter(size int) *reachCounter {
	return &reachCounter{seen: make([]int, size)}
}

func (r *reachCounter) count(adj [][]int, visited []bool, from int) int {
	r.epoch++
	r.seen[from] = r.epoch
	r.queue = append(r.queue[:0], from)
	total := 0
	for len(r.queue) > 0 {
		node := r.queue[len(r.queue)-1]
		r.queue = r.queue[:len(r.queue)-1]
		total++
		for _, next := range adj[node] {
			if !visited[next] && r.seen[next] != r.epoch {
				r.seen[next] = r.epoch
				r.queue = append(r.queue, next)
			}
		}
	}
	return total
}

// TreeWalker builds the corpus-wide relationship analysis.
type TreeWalker struct {
	comparator *Comparator
	threshold  float64
	n          int
	maxDepth   int
}

// NewTreeWalker creates a walker linking documents whose similarity at
// n-gram size n is at least threshold.
func NewTreeWalker(comparator *Comparator, threshold float64, n, maxDepth int) *TreeWalker {
	return &TreeWalker{
		comparator: comparator,
		threshold:  threshold,
		n:          n,
		maxDepth:   maxDepth,
	}
}

// Walk scores every unordered document pair once and returns each
// document's best similarity together with the longest chain.
func (w *TreeWalker) Walk(ctx context.Context, docs []domain.Document) (*domain.Analysis, CompareStats, error) {
	logger.Section("Relationship Analysis")
	logger.Debug("Documents: %d, threshold: %.2f, n: %d, max depth: %d",
		len(docs), w.threshold, w.n, w.maxDepth)

	var stats CompareStats
	count := len(docs)
	matrix := make([][]float64, count)
	for i := range matrix {
		matrix[i] = make([]float64, count)
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, err)
		}
		subject := NewSubject(docs[i].Text)
		results, runStats, err := w.comparator.CompareRecursive(ctx, subject, docs[i+1:], w.n)
		if err != nil {
			return nil, stats, err
		}
		stats.Add(runStats)
		for k, r := range results {
			j := i + 1 + k
			matrix[i][j] = r.Similarity
			matrix[j][i] = r.Similarity
		}
	}

	analysis := &domain.Analysis{
		Similarities:   make([]float64, count),
		DocumentTree:   []string{},
		TreeWithTitles: []domain.ChainNode{},
	}
	ids := make([]string, count)
	for i, doc := range docs {
		ids[i] = doc.ID
		for j := range docs {
			if i != j && matrix[i][j] > analysis.Similarities[i] {
				analysis.Similarities[i] = matrix[i][j]
			}
		}
	}

	linked := func(i, j int) bool { return matrix[i][j] >= w.threshold && matrix[i][j] > 0 }
	chain, err := LongestChain(ctx, ids, linked, w.maxDepth)
	if err != nil {
		return nil, stats, err
	}
	for _, idx := range chain {
		analysis.DocumentTree = append(analysis.DocumentTree, docs[idx].ID)
		analysis.TreeWithTitles = append(analysis.TreeWithTitles, domain.ChainNode{
			ID:    docs[idx].ID,
			Title: docs[idx].Title,
		})
	}

	logger.Debug("Longest chain: %v", analysis.DocumentTree)
	return analysis, stats, nil
}
