// Package tsv reads and writes the sectioned tab-separated export format.
//
// A file starts with a tab-delimited header row followed by transaction rows.
// The literal lines "Categories:", "Payment Methods:" and "User Settings:"
// open the remaining sections. Blank lines are ignored everywhere.
package tsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spendlog/spendlog/internal/model"
)

// Section header lines. Matching is exact and case-sensitive.
const (
	HeaderCategories     = "Categories:"
	HeaderPaymentMethods = "Payment Methods:"
	HeaderUserSettings   = "User Settings:"
)

// Setting keys recognized by the importer, lower-cased as the parser stores them.
const (
	SettingName     = "name"
	SettingCurrency = "currency"
	SettingAppIcon  = "app icon"
)

const (
	numFields   = 6
	colDate     = 0
	colAmount   = 1
	colMemo     = 2
	colCategory = 3
	colMethod   = 4
	colType     = 5

	maxLineSize = 1 << 20
)

// ErrInvalidFormat is returned when the content cannot be split into lines at all.
var ErrInvalidFormat = errors.New("invalid file format: please ensure the file is a valid TSV export")

// Data holds the untyped records of an import file, one bucket per section.
type Data struct {
	Transactions   []model.RawTransaction
	Categories     []string
	PaymentMethods []string
	UserSettings   map[string]string
}

// Result is the outcome of a successful parse. Errors lists the lines that
// failed, in input order. Dropped counts transaction rows whose column count
// did not match the header; they are not errors.
type Result struct {
	Data    Data
	Errors  []model.ImportError
	Dropped int
}

type section int

const (
	sectionTransactions section = iota
	sectionCategories
	sectionMethods
	sectionSettings
)

func (s section) String() string {
	switch s {
	case sectionCategories:
		return "categories"
	case sectionMethods:
		return "methods"
	case sectionSettings:
		return "settings"
	default:
		return "transactions"
	}
}

func (s section) kind() model.ImportKind {
	switch s {
	case sectionCategories:
		return model.KindCategory
	case sectionMethods:
		return model.KindMethod
	case sectionSettings:
		return model.KindSettings
	default:
		return model.KindTransaction
	}
}

// IsSectionHeader reports whether line, once trimmed, would switch sections.
func IsSectionHeader(line string) bool {
	switch strings.TrimSpace(line) {
	case HeaderCategories, HeaderPaymentMethods, HeaderUserSettings:
		return true
	}
	return false
}

// ParseString parses an in-memory export.
func ParseString(content string) (*Result, error) {
	return Parse(strings.NewReader(content))
}

// Parse reads a full export from r. A failure on a single line is recorded in
// Result.Errors and parsing moves on; only unreadable content is fatal.
func Parse(r io.Reader) (*Result, error) {
	lines, err := splitLines(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	p := &parser{
		result: &Result{
			Data: Data{UserSettings: make(map[string]string)},
		},
	}
	for _, line := range lines {
		p.handle(line)
	}
	return p.result, nil
}

func splitLines(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, errors.New("no content")
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return lines, nil
}

type parser struct {
	section section
	headers []string
	result  *Result
}

func (p *parser) handle(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}
	if err := checkText(line); err != nil {
		p.fail(model.RawLine(strings.ToValidUTF8(line, "\uFFFD")), err)
		return
	}

	switch line {
	case HeaderCategories:
		p.section = sectionCategories
		return
	case HeaderPaymentMethods:
		p.section = sectionMethods
		return
	case HeaderUserSettings:
		p.section = sectionSettings
		return
	}

	var err error
	switch p.section {
	case sectionTransactions:
		err = p.transaction(line)
	case sectionCategories:
		p.result.Data.Categories = append(p.result.Data.Categories, names(line)...)
	case sectionMethods:
		p.result.Data.PaymentMethods = append(p.result.Data.PaymentMethods, names(line)...)
	case sectionSettings:
		p.setting(line)
	}

	if err != nil {
		p.fail(model.RawLine(line), err)
	}
}

// fail records a line-level error for the current section.
func (p *parser) fail(line model.RawLine, err error) {
	p.result.Errors = append(p.result.Errors, model.ImportError{
		Kind:    p.section.kind(),
		Message: fmt.Sprintf("Failed to parse %s data", p.section),
		Payload: line,
		Err:     err,
	})
}

// checkText rejects lines that are not plain UTF-8 text.
func checkText(line string) error {
	if strings.IndexByte(line, 0) >= 0 {
		return errors.New("contains NUL byte")
	}
	if !utf8.ValidString(line) {
		return errors.New("not valid UTF-8")
	}
	return nil
}

func (p *parser) transaction(line string) error {
	if p.headers == nil {
		p.headers = strings.Split(line, "\t")
		return nil
	}

	values := strings.Split(line, "\t")
	if len(values) != len(p.headers) {
		p.result.Dropped++
		return nil
	}
	if len(values) < numFields {
		return fmt.Errorf("expected %d fields, got %d", numFields, len(values))
	}

	p.result.Data.Transactions = append(p.result.Data.Transactions, model.RawTransaction{
		Date:     values[colDate],
		Amount:   values[colAmount],
		Memo:     values[colMemo],
		Category: values[colCategory],
		Method:   values[colMethod],
		Type:     strings.ToLower(values[colType]),
	})
	return nil
}

func (p *parser) setting(line string) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return
	}
	key := strings.ToLower(strings.TrimSpace(parts[0]))
	value := strings.TrimSpace(parts[1])
	if key == "" || value == "" {
		return
	}
	p.result.Data.UserSettings[key] = value
}

// names splits a line on tabs and drops empty tokens.
func names(line string) []string {
	var out []string
	for _, tok := range strings.Split(line, "\t") {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
