package core

// report_builder.go assembles tabular reports from snapshot property bags.
//
// A report is built in two passes:
//  1. Headers: fixed labels, then either the survey schema order or every
//     bag key in first-seen order, de-duplicated.
//  2. Rows: each header is mapped back to its data key and looked up in the
//     snapshot's data view (bag + injected family/organization fields).
//
// Missing keys and null values render as empty cells; they are normal for
// sparse, variable-schema surveys.

// DefaultHeaders prefix every organization/family report.
var DefaultHeaders = []string{"Organization Name", "Family Code", "Family Name", "Created At"}

// historyHeaders prefix the per-family snapshot history.
var historyHeaders = []string{"Created At"}

// Keys of the context fields injected into each row's data view.
const (
	keyOrganizationName = "organizationName"
	keyFamilyCode       = "familyCode"
	keyFamilyName       = "familyName"
	keyCreatedAt        = "createdAt"
)

// contextField is a value injected into a snapshot's data view.
type contextField struct {
	key   string
	value string
}

// reportShape parameterizes the builder for each kind of report.
type reportShape struct {
	prefix []string          // fixed leading labels
	static []string          // labels always present regardless of survey
	schema *SurveyDefinition // non-nil selects schema-driven headers
	inject func(Snapshot) []contextField
}

// headerSet is an ordered, duplicate-free header list.
type headerSet struct {
	list []string
	seen map[string]struct{}
	keys map[string]struct{} // data keys already converted
}

func newHeaderSet() *headerSet {
	return &headerSet{seen: make(map[string]struct{}), keys: make(map[string]struct{})}
}

// add appends name unless it is already present.
func (h *headerSet) add(name string) {
	if _, ok := h.seen[name]; ok {
		return
	}
	h.seen[name] = struct{}{}
	h.list = append(h.list, name)
}

// addKeys appends the header for each data key.
func (h *headerSet) addKeys(keys []string) {
	for _, k := range keys {
		if _, ok := h.keys[k]; ok {
			continue
		}
		h.keys[k] = struct{}{}
		h.add(HeaderFromKey(k))
	}
}

// buildReport runs both passes for the given shape.
func buildReport(shape reportShape, snapshots []Snapshot) Report {
	headers := buildHeaders(shape, snapshots)

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = KeyFromHeader(h)
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, buildRow(keys, dataView(shape, s)))
	}

	return Report{Headers: headers, Rows: rows}
}

// buildHeaders derives the ordered header list.
func buildHeaders(shape reportShape, snapshots []Snapshot) []string {
	hs := newHeaderSet()
	for _, label := range shape.prefix {
		hs.add(label)
	}

	if shape.schema != nil {
		// Schema order is authoritative; keys only present in data are not reported.
		hs.addKeys(shape.schema.PersonalFields)
		hs.addKeys(shape.schema.EconomicFields)
		hs.addKeys(shape.schema.IndicatorFields)
		return hs.list
	}

	for _, label := range shape.static {
		hs.add(label)
	}
	for _, s := range snapshots {
		hs.addKeys(s.Indicators.Keys())
	}
	return hs.list
}

// dataView merges a snapshot's answers with the shape's injected fields.
func dataView(shape reportShape, s Snapshot) *SurveyData {
	view := s.Indicators.Clone()
	if shape.inject != nil {
		for _, f := range shape.inject(s) {
			view.Put(f.key, f.value)
		}
	}
	return view
}

// buildRow produces one cell per key, in key order.
func buildRow(keys []string, data *SurveyData) []string {
	row := make([]string, len(keys))
	for i, key := range keys {
		v, ok := data.Get(key)
		if !ok || v == nil {
			continue
		}
		row[i] = TranscodeIndicator(*v)
	}
	return row
}
