package order

import (
	"sort"

	"github.com/muehlenhof/pos/internal/menu"
	"github.com/muehlenhof/pos/internal/receipt"
)

// Section headers and course hints as they appear on the tickets.
const (
	SectionBar     = "THEKE / GETRÄNKE"
	SectionKitchen = "KÜCHE / SPEISEN"

	HintStarter = "VORSPEISENBON"
	HintMain    = "SPEISENBON"
	HintDessert = "NACHSPEISENBON"

	cancelPrefix = "STORNO: "
)

// Ticket is one printable delta bucket. Bar lines make one ticket, kitchen
// lines make one ticket per course.
type Ticket struct {
	Dept    string             `json:"dept"`
	Section string             `json:"section"`
	Hint    string             `json:"hint,omitempty"`
	Items   []receipt.LineItem `json:"items"`
}

// SendPlan is everything a send produces: the tickets to print and the
// per-line quantities to record once printing succeeded.
type SendPlan struct {
	Tickets []Ticket
	Advance map[string]int
}

// Empty reports whether nothing changed since the last send.
func (p SendPlan) Empty() bool {
	return len(p.Tickets) == 0
}

// PlanSend diffs every line's quantity against what was already sent.
// Positive diffs become new positions, negative diffs become cancellations of
// the absolute difference. Unchanged lines are skipped, so resending an
// unchanged order yields no tickets.
func PlanSend(o *Order) SendPlan {
	plan := SendPlan{Advance: make(map[string]int)}

	var bar, starters, mains, desserts []receipt.LineItem

	for _, key := range sortedKeys(o.Items) {
		l := o.Items[key]
		diff := l.Qty - l.SentQty()
		if diff == 0 {
			continue
		}

		li := receipt.LineItem{
			Qty:  diff,
			Name: l.Name,
			Size: l.Size,
			Note: l.Note,
		}
		if diff < 0 {
			li.Qty = -diff
			li.Name = cancelPrefix + l.Name
			li.Cancelled = true
		}

		if l.Dept == menu.DeptBar {
			bar = append(bar, li)
		} else {
			switch l.Course {
			case menu.CourseStarter:
				starters = append(starters, li)
			case menu.CourseDessert:
				desserts = append(desserts, li)
			default:
				mains = append(mains, li)
			}
		}

		plan.Advance[key] = l.Qty
	}

	if len(bar) > 0 {
		plan.Tickets = append(plan.Tickets, Ticket{Dept: menu.DeptBar, Section: SectionBar, Items: bar})
	}
	if len(starters) > 0 {
		plan.Tickets = append(plan.Tickets, Ticket{Dept: menu.DeptKitchen, Section: SectionKitchen, Hint: HintStarter, Items: starters})
	}
	if len(mains) > 0 {
		plan.Tickets = append(plan.Tickets, Ticket{Dept: menu.DeptKitchen, Section: SectionKitchen, Hint: HintMain, Items: mains})
	}
	if len(desserts) > 0 {
		plan.Tickets = append(plan.Tickets, Ticket{Dept: menu.DeptKitchen, Section: SectionKitchen, Hint: HintDessert, Items: desserts})
	}

	return plan
}

// ApplyOrderedQty records the sent quantities on the order. Called only after
// every ticket of the plan was delivered.
func ApplyOrderedQty(o *Order, advance map[string]int) {
	for key, qty := range advance {
		l, ok := o.Items[key]
		if !ok {
			continue
		}
		l.OrderedQty = qty
		l.PrintedQty = qty
	}
}

func sortedKeys(items map[string]*Line) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
