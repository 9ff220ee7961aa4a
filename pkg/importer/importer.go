// Package importer turns pasted tabular text (home-banking exports, Excel
// ranges) into candidate transaction drafts with per-row validation. Every
// valid row it emits satisfies the shape the ledger engine accepts.
package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paxol/money-tracker/pkg/ledger"
	"github.com/paxol/money-tracker/pkg/models"
)

// NumberStyle selects the decimal/thousand separator convention of the
// pasted amounts.
type NumberStyle string

const (
	Italian NumberStyle = "ita" // 1.234,56
	English NumberStyle = "eng" // 1,234.56
)

// Options configures parsing defaults. Rows carry no wallet or category of
// their own; the defaults fill them in and the per-row validation flags
// whatever is still missing.
type Options struct {
	DefaultWalletId      string
	DefaultInCategoryId  string
	DefaultOutCategoryId string
	NumberStyle          NumberStyle
}

// Row is one parsed line: a draft plus whatever is wrong with it. Field names
// in Errors match the draft fields so the UI can attach messages to inputs.
type Row struct {
	Id           string
	SourceIndex  int
	SourceLine   string
	Draft        ledger.Draft
	Errors       map[string]string
	ParseWarning string
}

// Valid reports whether the row can be submitted as-is.
func (r *Row) Valid() bool {
	return len(r.Errors) == 0
}

// Drafts returns the drafts of all valid rows, in source order.
func Drafts(rows []Row) []ledger.Draft {
	var out []ledger.Draft
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r.Draft)
		}
	}
	return out
}

type columnMapping struct {
	hasHeader      bool
	dateIdx        int
	amountIdx      int
	descriptionIdx int
}

// Parse splits the pasted text into lines and produces one Row per non-empty
// line. A header line, when detected, sets the column mapping and is skipped.
func Parse(text string, opts Options) []Row {
	if opts.NumberStyle == "" {
		opts.NumberStyle = Italian
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var rows []Row
	mapping := columnMapping{dateIdx: -1, amountIdx: -1, descriptionIdx: -1}
	mappingSet := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := tokenize(line)

		if !mappingSet {
			mappingSet = true
			mapping = detectHeader(tokens)
			if mapping.hasHeader {
				continue
			}
			mapping = defaultMapping(len(tokens))
		}

		rows = append(rows, parseRow(i, line, tokens, mapping, opts))
	}

	return rows
}

// tokenize splits a line on tabs, falling back to semicolons for CSV-ish
// exports.
func tokenize(line string) []string {
	if byTab := strings.Split(line, "\t"); len(byTab) > 1 {
		return byTab
	}
	if bySemicolon := strings.Split(line, ";"); len(bySemicolon) > 1 {
		return bySemicolon
	}
	return []string{line}
}

// detectHeader looks for known italian/english column names in the first
// line. A recognized header both marks the line as skippable and pins the
// column positions.
func detectHeader(tokens []string) columnMapping {
	m := columnMapping{dateIdx: -1, amountIdx: -1, descriptionIdx: -1}

	for i, raw := range tokens {
		normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))

		switch normalized {
		case "operationdate", "dataoperazione", "date", "data", "curr.date":
			m.dateIdx = i
			m.hasHeader = true
		case "description", "descrizione", "causale":
			m.descriptionIdx = i
			m.hasHeader = true
		case "amountcontabilizzato", "amount", "importo", "importocontabilizzato":
			m.amountIdx = i
			m.hasHeader = true
		case "state", "stato":
			m.hasHeader = true
		}
	}

	return m
}

// defaultMapping is the positional fallback for headerless pastes: second
// column date, fourth description, last amount.
func defaultMapping(tokenCount int) columnMapping {
	m := columnMapping{dateIdx: -1, amountIdx: -1, descriptionIdx: -1}
	if tokenCount > 1 {
		m.dateIdx = 1
	}
	if tokenCount > 3 {
		m.descriptionIdx = 3
	}
	if tokenCount > 0 {
		m.amountIdx = tokenCount - 1
	}
	return m
}

func token(tokens []string, idx int) string {
	if idx < 0 || idx >= len(tokens) {
		return ""
	}
	return strings.TrimSpace(tokens[idx])
}

func parseRow(index int, line string, tokens []string, m columnMapping, opts Options) Row {
	row := Row{
		Id:          uuid.New().String(),
		SourceIndex: index,
		SourceLine:  line,
		Errors:      map[string]string{},
	}

	date, dateOK := parseDate(token(tokens, m.dateIdx))
	amount, negative, amountOK := parseAmount(token(tokens, m.amountIdx), opts.NumberStyle)
	description := token(tokens, m.descriptionIdx)

	// Card purchases carry the real merchant and timestamp inside the
	// description; prefer those when present.
	if pos, found := parsePOSDescription(description); found {
		description = pos.description
		date = pos.date
		dateOK = true
	}

	kind := models.Income
	categoryID := opts.DefaultInCategoryId
	if negative {
		kind = models.Expense
		categoryID = opts.DefaultOutCategoryId
	}

	row.Draft = ledger.Draft{
		Amount:      amount,
		Date:        date,
		Description: description,
		Kind:        kind,
		CategoryId:  categoryID,
		WalletId:    opts.DefaultWalletId,
	}

	if !dateOK {
		row.Errors["date"] = "invalid or missing date"
	}
	if !amountOK || amount <= 0 {
		row.Errors["amount"] = "invalid amount"
	}
	if description == "" {
		row.Errors["description"] = "description is required"
	}
	if row.Draft.WalletId == "" {
		row.Errors["wallet"] = "wallet is required"
	}
	if categoryID == "" {
		row.Errors["category"] = "category is required"
	}

	return row
}

var dateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})`)

// parseDate accepts dd/mm/yyyy and dd-mm-yy forms; two-digit years pivot at
// 70.
func parseDate(raw string) (time.Time, bool) {
	match := dateRe.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return time.Time{}, false
	}

	day := atoi(match[1])
	month := atoi(match[2])
	year := atoi(match[3])

	if year < 100 {
		if year >= 70 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// parseAmount returns the absolute amount in cents plus the sign. Accounting
// parentheses count as negative.
func parseAmount(raw string, style NumberStyle) (cents int64, negative bool, ok bool) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return 0, false, false
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	negative = strings.Contains(s, "-")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.TrimPrefix(s, "+")

	if style == Italian {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, negative, false
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, negative, false
		}
	}

	var value int64
	for _, r := range intPart {
		value = value*10 + int64(r-'0')
	}
	value *= 100

	// Two decimals, half-up rounding on the third.
	if len(fracPart) > 0 {
		value += int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		value += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		value++
	}

	return value, negative, true
}

var posRe = regexp.MustCompile(`POS CARTA [a-zA-Z ]+N\. \*{4}\d{4} DEL (\d{2})/(\d{2})/(\d{2}) ORE (\d\d):(\d\d) C /O (.+)`)

type posResult struct {
	date        time.Time
	description string
}

// parsePOSDescription extracts the purchase timestamp and merchant from a
// card-payment causale line.
func parsePOSDescription(description string) (posResult, bool) {
	match := posRe.FindStringSubmatch(description)
	if match == nil {
		return posResult{}, false
	}

	day := atoi(match[1])
	month := atoi(match[2])
	year := atoi(match[3])
	hours := atoi(match[4])
	minutes := atoi(match[5])

	if year < 100 {
		if year >= 70 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hours > 23 || minutes > 59 {
		return posResult{}, false
	}

	return posResult{
		date:        time.Date(year, time.Month(month), day, hours, minutes, 0, 0, time.UTC),
		description: strings.TrimSpace(match[6]),
	}, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
