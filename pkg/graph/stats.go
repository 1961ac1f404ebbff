package graph

import (
	"slices"

	"github.com/matzehuels/spantree/pkg/dsu"
)

// Stats summarizes a graph and, optionally, the MST built on it so far.
type Stats struct {
	NodeCount        int `json:"node_count"`
	EdgeCount        int `json:"edge_count"`
	MaxPossibleEdges int `json:"max_possible_edges"`
	// Density is EdgeCount as a percentage of MaxPossibleEdges.
	Density float64 `json:"density"`

	MinDegree int     `json:"min_degree"`
	AvgDegree float64 `json:"avg_degree"`
	MaxDegree int     `json:"max_degree"`

	MinWeight   int     `json:"min_weight"`
	AvgWeight   float64 `json:"avg_weight"`
	MaxWeight   int     `json:"max_weight"`
	TotalWeight int     `json:"total_weight"`

	Connected  bool       `json:"connected"`
	Components [][]string `json:"components"`

	TopCentral []Centrality `json:"top_central"`

	MSTEdges int `json:"mst_edges"`
	MSTCost  int `json:"mst_cost"`
	// MSTProgress is MSTEdges as a percentage of NodeCount-1.
	MSTProgress float64 `json:"mst_progress"`
	// CostSaving is the share of TotalWeight the MST avoids, in percent.
	CostSaving float64 `json:"cost_saving"`
}

// Centrality is the degree centrality of one node, relative to the maximum
// degree in the graph.
type Centrality struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Degree int     `json:"degree"`
	Score  float64 `json:"score"`
}

// LargestComponent returns the size of the biggest component.
func (s Stats) LargestComponent() int {
	largest := 0
	for _, c := range s.Components {
		largest = max(largest, len(c))
	}
	return largest
}

// ComputeStats analyzes nodes and edges. mstEdges may be empty; mstCost is
// the cost reported by the engine for those edges.
//
// Degree statistics only consider nodes that have at least one edge.
func ComputeStats(nodes []Node, edges []Edge, mstEdges []Edge, mstCost int) Stats {
	s := Stats{
		NodeCount: len(nodes),
		EdgeCount: len(edges),
		MSTEdges:  len(mstEdges),
		MSTCost:   mstCost,
	}
	if s.NodeCount > 1 {
		s.MaxPossibleEdges = s.NodeCount * (s.NodeCount - 1) / 2
		s.MSTProgress = float64(s.MSTEdges) / float64(s.NodeCount-1) * 100
	}
	if s.MaxPossibleEdges > 0 {
		s.Density = float64(s.EdgeCount) / float64(s.MaxPossibleEdges) * 100
	}

	degrees := make(map[string]int)
	var order []string
	for _, e := range edges {
		for _, id := range []string{e.Source, e.Target} {
			if _, seen := degrees[id]; !seen {
				order = append(order, id)
			}
			degrees[id]++
		}
	}
	if len(order) > 0 {
		sum := 0
		s.MinDegree = degrees[order[0]]
		for _, id := range order {
			d := degrees[id]
			sum += d
			s.MinDegree = min(s.MinDegree, d)
			s.MaxDegree = max(s.MaxDegree, d)
		}
		s.AvgDegree = float64(sum) / float64(len(order))
	}

	if len(edges) > 0 {
		s.MinWeight = edges[0].Weight
		for _, e := range edges {
			s.TotalWeight += e.Weight
			s.MinWeight = min(s.MinWeight, e.Weight)
			s.MaxWeight = max(s.MaxWeight, e.Weight)
		}
		s.AvgWeight = float64(s.TotalWeight) / float64(len(edges))
	}
	if s.TotalWeight > 0 && mstCost > 0 {
		s.CostSaving = float64(s.TotalWeight-mstCost) / float64(s.TotalWeight) * 100
	}

	set := dsu.New(NodeIDs(nodes))
	for _, e := range edges {
		set.Union(e.Source, e.Target)
	}
	if len(nodes) > 0 {
		s.Components = set.Components()
		s.Connected = len(s.Components) == 1
	}

	central := make([]Centrality, len(nodes))
	for i, n := range nodes {
		c := Centrality{ID: n.ID, Name: n.Name, Degree: degrees[n.ID]}
		if s.MaxDegree > 0 {
			c.Score = float64(c.Degree) / float64(s.MaxDegree) * 100
		}
		central[i] = c
	}
	slices.SortStableFunc(central, func(a, b Centrality) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	s.TopCentral = central[:min(3, len(central))]
	return s
}
