// Package gains scrapes per-skill experience deltas from the Crystal Math Labs
// tracker page. The page layout is not stable, so the gains table and its
// columns are located heuristically.
package gains

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
)

const (
	defaultMinRows  = 5
	defaultMinScore = 3
	valueScale      = 10
	maxLabelWords   = 3
)

// DefaultStableIDs are element ids the tracker has used for its stats table.
var DefaultStableIDs = []string{"stats_table", "statstable", "tracker_table", "gains_table"}

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	styleBlock  = regexp.MustCompile(`(?is)<style\b.*?</style\s*>`)
	whitespace  = regexp.MustCompile(`\s+`)
	dayPhrase   = regexp.MustCompile(`\b(\d+)\s*-?\s*days?\b`)
	nonNumeric  = regexp.MustCompile(`[^0-9-]`)
)

// Table is a located gains table.
type Table struct {
	// ID is the table's id attribute, if any.
	ID string
	// SkillColumn is the column holding skill labels.
	SkillColumn int
	// Columns maps each window to its column; windows without one are absent.
	Columns map[model.Window]int
	// HeaderRow is the index of the header row, -1 when none was found.
	HeaderRow int
	Rows      []Row
}

// Row is one skill's deltas, in tenths of an experience point.
type Row struct {
	SkillID int
	Gains   map[model.Window]int64
}

// Record converts t into an available GainsRecord.
func (t Table) Record() model.GainsRecord {
	r := model.NewGainsRecord()
	r.Available = true
	for _, row := range t.Rows {
		for w, v := range row.Gains {
			r.Set(w, row.SkillID, v)
		}
	}
	return r
}

type parseConfig struct {
	stableIDs []string
	minRows   int
	minScore  int
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithStableIDs sets the table ids preferred over scoring.
func WithStableIDs(ids ...string) ParseOption {
	return func(c *parseConfig) {
		c.stableIDs = ids
	}
}

// WithMinRows sets how many rows a table needs to be scored.
func WithMinRows(n int) ParseOption {
	return func(c *parseConfig) {
		if n > 0 {
			c.minRows = n
		}
	}
}

// WithMinScore sets how many distinct skills a scored table must mention.
func WithMinScore(n int) ParseOption {
	return func(c *parseConfig) {
		if n > 0 {
			c.minScore = n
		}
	}
}

// cell is the text and label attributes of one th or td.
type cell struct {
	text   string
	labels []string
}

func (c cell) skill() (int, bool) {
	if id, ok := model.LookupSkill(c.text); ok {
		return id, true
	}
	for _, l := range c.labels {
		if id, ok := model.LookupSkill(l); ok {
			return id, true
		}
	}
	return 0, false
}

type table struct {
	id   string
	rows [][]cell
}

// Parse locates the gains table in doc. It reports false when no table is
// recognizable or the chosen table yields no skill rows.
func Parse(doc string, opts ...ParseOption) (Table, bool) {
	cfg := parseConfig{stableIDs: DefaultStableIDs, minRows: defaultMinRows, minScore: defaultMinScore}
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := html.Parse(strings.NewReader(Sanitize(doc)))
	if err != nil {
		return Table{}, false
	}
	tables := collectTables(root)

	if t, ok := pickStable(tables, cfg.stableIDs); ok {
		if out := build(t); len(out.Rows) > 0 {
			return out, true
		}
	}

	best, bestScore := -1, 0
	for i, t := range tables {
		if len(t.rows) < cfg.minRows {
			continue
		}
		if score := distinctSkills(t); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < cfg.minScore {
		return Table{}, false
	}
	out := build(tables[best])
	if len(out.Rows) == 0 {
		return Table{}, false
	}
	return out, true
}

// Sanitize drops script and style blocks and collapses whitespace.
func Sanitize(doc string) string {
	doc = scriptBlock.ReplaceAllString(doc, "")
	doc = styleBlock.ReplaceAllString(doc, "")
	return whitespace.ReplaceAllString(doc, " ")
}

func pickStable(tables []table, ids []string) (table, bool) {
	for _, t := range tables {
		if t.id == "" {
			continue
		}
		for _, id := range ids {
			if strings.EqualFold(t.id, id) && distinctSkills(t) > 0 {
				return t, true
			}
		}
	}
	return table{}, false
}

func distinctSkills(t table) int {
	seen := make(map[int]struct{})
	for _, row := range t.rows {
		for _, c := range row {
			if id, ok := c.skill(); ok {
				seen[id] = struct{}{}
			}
		}
	}
	return len(seen)
}

func build(t table) Table {
	out := Table{ID: t.id, SkillColumn: skillColumn(t), HeaderRow: -1, Columns: make(map[model.Window]int)}

	// The header is the row naming the most windows; earlier rows win ties.
	best := 0
	for i, row := range t.rows {
		labels := 0
		for col, c := range row {
			if col == out.SkillColumn {
				continue
			}
			if _, ok := headerLabel(c.text); ok {
				labels++
			}
		}
		if labels > best {
			best, out.HeaderRow = labels, i
		}
	}

	claimed := make(map[int]bool)
	if out.HeaderRow >= 0 {
		for col, c := range t.rows[out.HeaderRow] {
			if col == out.SkillColumn {
				continue
			}
			w, ok := headerLabel(c.text)
			if !ok {
				continue
			}
			if _, taken := out.Columns[w]; !taken {
				out.Columns[w] = col
				claimed[col] = true
			}
		}
	}

	for k, w := range model.Windows {
		if _, ok := out.Columns[w]; ok {
			continue
		}
		col := out.SkillColumn + 2 + k
		if !claimed[col] {
			out.Columns[w] = col
		}
	}

	seen := make(map[int]bool)
	for i, row := range t.rows {
		if i == out.HeaderRow || out.SkillColumn < 0 || out.SkillColumn >= len(row) {
			continue
		}
		id, ok := row[out.SkillColumn].skill()
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		r := Row{SkillID: id, Gains: make(map[model.Window]int64, len(out.Columns))}
		for w, col := range out.Columns {
			var text string
			if col < len(row) {
				text = row[col].text
			}
			r.Gains[w] = parseValue(text)
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// skillColumn returns the column resolving the most distinct skills, the
// leftmost on ties, or -1 when no cell names a skill.
func skillColumn(t table) int {
	seen := make(map[int]map[int]bool)
	for _, row := range t.rows {
		for col, c := range row {
			id, ok := c.skill()
			if !ok {
				continue
			}
			if seen[col] == nil {
				seen[col] = make(map[int]bool)
			}
			seen[col][id] = true
		}
	}
	best, bestCount := -1, 0
	for col, ids := range seen {
		if n := len(ids); n > bestCount || n == bestCount && col < best {
			best, bestCount = col, n
		}
	}
	return best
}

// headerLabel is windowOf restricted to short cells, so a caption such as
// "Tracked for 412 days" is not taken for a column label.
func headerLabel(text string) (model.Window, bool) {
	if len(strings.Fields(labelTokens(strings.ToLower(text)))) > maxLabelWords {
		return "", false
	}
	return windowOf(text)
}

func labelTokens(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, s)
}

// windowOf recognizes a header label naming one of the gains windows.
func windowOf(label string) (model.Window, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return "", false
	}
	if m := dayPhrase.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "1":
			return model.WindowDay, true
		case "7":
			return model.WindowWeek, true
		case "30":
			return model.WindowMonth, true
		case "365":
			return model.WindowYear, true
		}
		return "", false
	}
	for _, tok := range strings.Fields(labelTokens(s)) {
		switch tok {
		case "day", "days", "24h", "1d":
			return model.WindowDay, true
		case "week", "weeks", "7d":
			return model.WindowWeek, true
		case "month", "months", "30d":
			return model.WindowMonth, true
		case "year", "years", "365d":
			return model.WindowYear, true
		}
	}
	return "", false
}

// parseValue keeps digits and minus signs and scales the result. Unparseable
// text and values that would overflow once scaled count as zero.
func parseValue(text string) int64 {
	n, err := strconv.ParseInt(nonNumeric.ReplaceAllString(text, ""), 10, 64)
	if err != nil || n > math.MaxInt64/valueScale || n < math.MinInt64/valueScale {
		return 0
	}
	return n * valueScale
}

// HasUpdateControl reports whether doc offers a control labelled "update",
// which the tracker shows for known subjects that have no data yet.
func HasUpdateControl(doc string) bool {
	root, err := html.Parse(strings.NewReader(Sanitize(doc)))
	if err != nil {
		return false
	}
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.A, atom.Button:
				found = containsUpdate(textOf(n))
			case atom.Input:
				typ := strings.ToLower(attr(n, "type"))
				if typ == "submit" || typ == "button" {
					found = containsUpdate(attr(n, "value"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func containsUpdate(s string) bool {
	return strings.Contains(strings.ToLower(s), "update")
}

func collectTables(root *html.Node) []table {
	var out []table
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			out = append(out, table{id: attr(n, "id"), rows: rowsOf(n)})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// rowsOf returns the rows of t, excluding rows of nested tables.
func rowsOf(t *html.Node) [][]cell {
	var rows [][]cell
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Tr:
				rows = append(rows, cellsOf(c))
			default:
				walk(c)
			}
		}
	}
	walk(t)
	return rows
}

func cellsOf(tr *html.Node) []cell {
	var cells []cell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cells = append(cells, cell{text: textOf(c), labels: labelsOf(c)})
	}
	return cells
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
}

// labelsOf collects alt and title attributes inside a cell, the cell's own
// title included.
func labelsOf(n *html.Node) []string {
	var labels []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if v := attr(n, "alt"); v != "" {
				labels = append(labels, v)
			}
			if v := attr(n, "title"); v != "" {
				labels = append(labels, v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return labels
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
