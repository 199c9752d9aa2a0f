package process

import "sort"

// View is the listing/detail representation handed to clients.
type View struct {
	Process
	PriorityCategory       PriorityCategory `json:"priority_category"`
	TransferDetailsVisible bool             `json:"transfer_details_visible"`
}

// NewView sorts reminders by due time; steps and notes keep insertion order.
func NewView(p Process) View {
	p = p.Clone()
	sort.SliceStable(p.Reminders, func(i, j int) bool {
		return p.Reminders[i].When.Before(p.Reminders[j].When)
	})
	return View{
		Process:                p,
		PriorityCategory:       Classify(p.Priority),
		TransferDetailsVisible: p.Status == StatusCompleted,
	}
}

func NewViews(processes []Process) []View {
	out := make([]View, len(processes))
	for i, p := range processes {
		out[i] = NewView(p)
	}
	return out
}
