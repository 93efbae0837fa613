package leads

// HotScoreThreshold marks a lead as a high-priority prospect.
const HotScoreThreshold = 0.7

// KPI is the headline figures shown above the lead table.
type KPI struct {
	TotalLeads     int     `json:"total_leads"`
	HotLeads       int     `json:"hot_leads"`
	ConversionRate float64 `json:"conversion_rate"`
}

// KPIs derives the headline figures from the full collection.
// ConversionRate is the hot-lead share, matching how the dashboard has
// always presented "conversion potential".
func (s *Store) KPIs() KPI {
	coll := s.Snapshot()
	out := KPI{TotalLeads: len(coll)}
	for _, l := range coll {
		if l.Score >= HotScoreThreshold {
			out.HotLeads++
		}
	}
	if out.TotalLeads > 0 {
		out.ConversionRate = float64(out.HotLeads) / float64(out.TotalLeads)
	}
	return out
}
