package encoding_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
	"github.com/stretchr/testify/require"
)

func sampleApplicant() domain.Applicant {
	return domain.Applicant{
		Age:             30,
		Sex:             "male",
		Job:             1,
		Housing:         "own",
		SavingAccount:   "little",
		CheckingAccount: "little",
		CreditAmount:    1000,
		DurationMonths:  12,
	}
}

func loadTables(t *testing.T) *encoding.Tables {
	t.Helper()
	tables, err := encoding.LoadFile(filepath.Join("testdata", "encoders.json"))
	require.NoError(t, err)
	return tables
}

func TestFeatureOrder(t *testing.T) {
	require.Equal(t, [8]string{
		"Age", "Sex", "Job", "Housing", "Saving accounts", "Checking account", "Credit amount", "Duration",
	}, encoding.FeatureOrder)
}

func TestBuildFeatures(t *testing.T) {
	tables := loadTables(t)

	f, err := tables.BuildFeatures(sampleApplicant())
	require.NoError(t, err)
	require.Equal(t, domain.Features{30, 1, 1, 1, 0, 0, 1000, 12}, f)
}

func TestBuildFeatures_CategoricalSlotsMatchTables(t *testing.T) {
	tables := loadTables(t)

	for _, sex := range domain.SexValues {
		for _, housing := range domain.HousingValues {
			for _, saving := range domain.SavingAccountValues {
				for _, checking := range domain.CheckingAccountValues {
					a := sampleApplicant()
					a.Sex, a.Housing, a.SavingAccount, a.CheckingAccount = sex, housing, saving, checking

					f, err := tables.BuildFeatures(a)
					require.NoError(t, err)

					for i, field := range encoding.FeatureOrder {
						tbl, ok := tables.Table(field)
						if !ok {
							continue
						}
						value := map[string]string{
							domain.FieldSex:             sex,
							domain.FieldHousing:         housing,
							domain.FieldSavingAccounts:  saving,
							domain.FieldCheckingAccount: checking,
						}[field]
						want, err := tbl.Lookup(value)
						require.NoError(t, err)
						require.Equal(t, float64(want), f[i], "%s=%s", field, value)
					}
				}
			}
		}
	}
}

func TestBuildFeatures_EncodingErrors(t *testing.T) {
	tables := loadTables(t)

	tests := []struct {
		name   string
		mutate func(*domain.Applicant)
		field  string
		value  string
	}{
		{"housing mortgaged", func(a *domain.Applicant) { a.Housing = "mortgaged" }, "Housing", "mortgaged"},
		{"sex unknown", func(a *domain.Applicant) { a.Sex = "other" }, "Sex", "other"},
		{"saving empty", func(a *domain.Applicant) { a.SavingAccount = "" }, "Saving accounts", ""},
		{"checking case", func(a *domain.Applicant) { a.CheckingAccount = "Rich" }, "Checking account", "Rich"},
		{"first bad field wins", func(a *domain.Applicant) { a.Sex, a.Housing = "x", "y" }, "Sex", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleApplicant()
			tt.mutate(&a)

			f, err := tables.BuildFeatures(a)
			require.Equal(t, domain.Features{}, f, "no partial vector")

			var encErr *domain.EncodingError
			require.ErrorAs(t, err, &encErr)
			require.Equal(t, tt.field, encErr.Field)
			require.Equal(t, tt.value, encErr.Value)
			require.NotEmpty(t, encErr.Allowed)
		})
	}
}

func TestBuildFeatures_ValidationErrors(t *testing.T) {
	tables := loadTables(t)
	a := sampleApplicant()
	a.Age = 12

	f, err := tables.BuildFeatures(a)
	require.Equal(t, domain.Features{}, f)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLookup_UnderscoreAlias(t *testing.T) {
	tables := loadTables(t)
	tbl, ok := tables.Table(domain.FieldSavingAccounts)
	require.True(t, ok)

	spaced, err := tbl.Lookup("quite rich")
	require.NoError(t, err)
	underscored, err := tbl.Lookup("quite_rich")
	require.NoError(t, err)
	require.Equal(t, 2, spaced)
	require.Equal(t, spaced, underscored)
}

func TestDefaultClassesMatchShippedFile(t *testing.T) {
	fromFile := loadTables(t)
	defaults, err := encoding.NewTables(encoding.DefaultClasses())
	require.NoError(t, err)

	for _, field := range encoding.CategoricalFields {
		a, _ := fromFile.Table(field)
		b, _ := defaults.Table(field)
		require.Equal(t, a.Classes(), b.Classes(), field)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	paths := map[string]string{
		"missing":        filepath.Join(dir, "absent.json"),
		"malformed":      write("bad.json", "["),
		"missing field":  write("partial.json", `{"Sex":["female","male"]}`),
		"empty classes":  write("empty.json", `{"Sex":[],"Housing":["own"],"Saving accounts":["little"],"Checking account":["little"]}`),
		"duplicate code": write("dup.json", `{"Sex":["male","male"],"Housing":["own"],"Saving accounts":["little"],"Checking account":["little"]}`),
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			_, err := encoding.LoadFile(path)
			var se *domain.StartupError
			require.ErrorAs(t, err, &se)
			require.Equal(t, "encoders", se.Artifact)
		})
	}
}
