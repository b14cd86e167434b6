// Package encoding turns applicant answers into the classifier input row.
package encoding

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
)

const artifact = "encoders"

// FeatureOrder is the column order the classifier was trained on. Changing
// it silently corrupts every prediction.
var FeatureOrder = [domain.FeatureCount]string{
	domain.FieldAge,
	domain.FieldSex,
	domain.FieldJob,
	domain.FieldHousing,
	domain.FieldSavingAccounts,
	domain.FieldCheckingAccount,
	domain.FieldCreditAmount,
	domain.FieldDuration,
}

// CategoricalFields are the columns that go through an encoder table.
var CategoricalFields = []string{
	domain.FieldSex,
	domain.FieldHousing,
	domain.FieldSavingAccounts,
	domain.FieldCheckingAccount,
}

// Table maps the allowed values of one field to their integer codes.
type Table struct {
	Field   string
	classes []string
	codes   map[string]int
}

// NewTable builds a table from a fitted class list; a value's code is its
// index.
func NewTable(field string, classes []string) (Table, error) {
	if len(classes) == 0 {
		return Table{}, fmt.Errorf("%s: no classes", field)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return Table{}, fmt.Errorf("%s: duplicate class %q", field, c)
		}
		codes[c] = i
	}
	return Table{Field: field, classes: slices.Clone(classes), codes: codes}, nil
}

// Lookup returns the code for value. Underscores are accepted in place of
// spaces ("quite_rich"); nothing else is normalised.
func (t Table) Lookup(value string) (int, error) {
	if code, ok := t.codes[value]; ok {
		return code, nil
	}
	if alt := strings.ReplaceAll(value, "_", " "); alt != value {
		if code, ok := t.codes[alt]; ok {
			return code, nil
		}
	}
	return 0, &domain.EncodingError{Field: t.Field, Value: value, Allowed: t.Classes()}
}

// Classes returns the allowed values in code order.
func (t Table) Classes() []string { return slices.Clone(t.classes) }

// Tables holds one Table per categorical field. It is read-only after load.
type Tables struct {
	byField map[string]Table
}

// NewTables builds Tables from field → class list, requiring every
// categorical field.
func NewTables(classes map[string][]string) (*Tables, error) {
	byField := make(map[string]Table, len(CategoricalFields))
	for _, field := range CategoricalFields {
		list, ok := classes[field]
		if !ok {
			return nil, fmt.Errorf("missing encoder for %q", field)
		}
		t, err := NewTable(field, list)
		if err != nil {
			return nil, err
		}
		byField[field] = t
	}
	return &Tables{byField: byField}, nil
}

// DefaultClasses returns the class lists a label encoder fitted on the
// known value sets would produce: each set sorted.
func DefaultClasses() map[string][]string {
	sorted := func(v []string) []string {
		out := slices.Clone(v)
		slices.Sort(out)
		return out
	}
	return map[string][]string{
		domain.FieldSex:             sorted(domain.SexValues),
		domain.FieldHousing:         sorted(domain.HousingValues),
		domain.FieldSavingAccounts:  sorted(domain.SavingAccountValues),
		domain.FieldCheckingAccount: sorted(domain.CheckingAccountValues),
	}
}

// LoadFile reads a JSON object mapping field name to its class list.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}

	var classes map[string][]string
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	t, err := NewTables(classes)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}
	return t, nil
}

// Table returns the table for field.
func (t *Tables) Table(field string) (Table, bool) {
	tbl, ok := t.byField[field]
	return tbl, ok
}

// BuildFeatures validates a and assembles its row in FeatureOrder. On error
// the zero row is returned, never a partial one.
func (t *Tables) BuildFeatures(a domain.Applicant) (domain.Features, error) {
	if err := a.Validate(); err != nil {
		return domain.Features{}, err
	}

	// Same order as CategoricalFields.
	values := [...]string{a.Sex, a.Housing, a.SavingAccount, a.CheckingAccount}
	var codes [len(values)]int
	for i, field := range CategoricalFields {
		code, err := t.byField[field].Lookup(values[i])
		if err != nil {
			return domain.Features{}, err
		}
		codes[i] = code
	}

	return domain.Features{
		float64(a.Age),
		float64(codes[0]),
		float64(a.Job),
		float64(codes[1]),
		float64(codes[2]),
		float64(codes[3]),
		float64(a.CreditAmount),
		float64(a.DurationMonths),
	}, nil
}
