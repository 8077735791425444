package task

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortNone      SortOrder = "none"
	SortAlphaAsc  SortOrder = "alphabet-asc"
	SortAlphaDesc SortOrder = "alphabet-desc"
	SortDueAsc    SortOrder = "dueDate-asc"
	SortDueDesc   SortOrder = "dueDate-desc"
)

var sortOrders = []SortOrder{SortNone, SortAlphaAsc, SortAlphaDesc, SortDueAsc, SortDueDesc}

func ParseSortOrder(s string) (SortOrder, error) {
	for _, o := range sortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Next cycles through the sort orders, wrapping after the last.
func (o SortOrder) Next() SortOrder {
	i := slices.Index(sortOrders, o)
	return sortOrders[(i+1)%len(sortOrders)]
}

func (o SortOrder) Label() string {
	switch o {
	case SortAlphaAsc:
		return "A-Z"
	case SortAlphaDesc:
		return "Z-A"
	case SortDueAsc:
		return "due soonest"
	case SortDueDesc:
		return "due latest"
	default:
		return "created"
	}
}

// Deriver computes the displayed sequence from a collection. Alphabetical
// orders collate according to its language.
type Deriver struct {
	lang language.Tag
}

func NewDeriver(lang language.Tag) Deriver {
	return Deriver{lang: lang}
}

var defaultDeriver = NewDeriver(language.English)

// Derive filters and sorts with English collation.
func Derive(tasks []Task, term string, order SortOrder) []Task {
	return defaultDeriver.Derive(tasks, term, order)
}

// Derive keeps the tasks whose text contains term, ignoring case, and
// sorts them by order. Ties keep their relative order. The input is not
// modified.
func (d Deriver) Derive(tasks []Task, term string, order SortOrder) []Task {
	out := filterText(tasks, term)

	switch order {
	case SortAlphaAsc, SortAlphaDesc:
		c := collate.New(d.lang, collate.IgnoreCase)
		desc := order == SortAlphaDesc
		slices.SortStableFunc(out, func(a, b Task) int {
			r := c.CompareString(a.Text, b.Text)
			if desc {
				return -r
			}
			return r
		})
	case SortDueAsc, SortDueDesc:
		desc := order == SortDueDesc
		slices.SortStableFunc(out, func(a, b Task) int {
			return compareDue(a.Due, b.Due, desc)
		})
	default:
		slices.SortStableFunc(out, func(a, b Task) int {
			return compareIDs(a.ID, b.ID)
		})
	}
	return out
}

func filterText(tasks []Task, term string) []Task {
	out := make([]Task, 0, len(tasks))
	if term == "" {
		return append(out, tasks...)
	}
	needle := strings.ToLower(term)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}

// compareDue puts tasks without a due date last whatever the direction.
func compareDue(a, b Due, desc bool) int {
	at, aok := a.Get()
	bt, bok := b.Get()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	r := at.Compare(bt)
	if desc {
		return -r
	}
	return r
}

type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoTasks
	EmptyNoMatches
)

// EmptyStateFor picks the empty-list message. "No tasks yet" only shows
// when nothing was ever added and no search is active.
func EmptyStateFor(total, visible int, term string) EmptyState {
	if visible > 0 {
		return EmptyNone
	}
	if total == 0 && term == "" {
		return EmptyNoTasks
	}
	return EmptyNoMatches
}

func (e EmptyState) Message() string {
	switch e {
	case EmptyNoTasks:
		return "No tasks yet! Add one above."
	case EmptyNoMatches:
		return "No tasks found."
	default:
		return ""
	}
}
