package findings

// Summary aggregates a register snapshot for dashboards and report headers.
type Summary struct {
	Total    int               `json:"total"`
	ByStatus map[Status]int    `json:"by_status"`
	ByLevel  map[RiskLevel]int `json:"by_level"`
	Overdue  int               `json:"overdue"`
}

// Summarize counts findings per status and risk tier. Every known status and
// tier is present in the maps, possibly with a zero count.
func Summarize(items []Finding) Summary {
	s := Summary{
		Total:    len(items),
		ByStatus: make(map[Status]int, len(Statuses())),
		ByLevel:  make(map[RiskLevel]int, len(RiskLevels())),
	}
	for _, status := range Statuses() {
		s.ByStatus[status] = 0
	}
	for _, level := range RiskLevels() {
		s.ByLevel[level] = 0
	}

	for _, f := range items {
		s.ByStatus[f.Status]++
		s.ByLevel[f.RiskLevel]++
		if f.OverdueFlag {
			s.Overdue++
		}
	}
	return s
}

// Open returns the number of findings that are not yet closed or rejected.
func (s Summary) Open() int {
	return s.ByStatus[StatusOpen] + s.ByStatus[StatusInProgress]
}
