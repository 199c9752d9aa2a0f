package process

import "sort"

type PriorityCategory string

const (
	PriorityLow          PriorityCategory = "low"
	PriorityMedium       PriorityCategory = "medium"
	PriorityHigh         PriorityCategory = "high"
	PriorityUnclassified PriorityCategory = "unclassified"
)

// Classify maps a 1-5 priority onto its category. Values outside the range
// fall into the nearest bucket so the mapping stays total.
func Classify(priority *int) PriorityCategory {
	if priority == nil {
		return PriorityUnclassified
	}
	switch p := *priority; {
	case p <= 2:
		return PriorityLow
	case p <= 4:
		return PriorityMedium
	default:
		return PriorityHigh
	}
}

func ParsePriorityCategory(s string) (PriorityCategory, bool) {
	switch c := PriorityCategory(s); c {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUnclassified:
		return c, true
	}
	return "", false
}

// SortByPriority orders processes by raw priority descending with unset
// priorities last. Equal priorities keep their relative order.
func SortByPriority(processes []Process) {
	sort.SliceStable(processes, func(i, j int) bool {
		return rank(processes[i].Priority) > rank(processes[j].Priority)
	})
}

func rank(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// ListFilter narrows a listing. Nil fields match everything.
type ListFilter struct {
	Priority *PriorityCategory
	Assignee *string
}

// Filter returns the processes matching f, sorted by priority.
func Filter(processes []Process, f ListFilter) []Process {
	out := make([]Process, 0, len(processes))
	for _, p := range processes {
		if f.Priority != nil && Classify(p.Priority) != *f.Priority {
			continue
		}
		if f.Assignee != nil && (p.AssigneeID == nil || *p.AssigneeID != *f.Assignee) {
			continue
		}
		out = append(out, p)
	}
	SortByPriority(out)
	return out
}
