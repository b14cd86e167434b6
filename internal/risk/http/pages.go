package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// UIConfig is the presentation layer of the HTML pages.
type UIConfig struct {
	Title    string
	Subtitle string
	Currency string
	Emoji    string
	Footer   string
}

// DefaultUIConfig returns the stock page texts.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Title:    "Credit Risk Predictor",
		Subtitle: "Enter applicant details to predict credit risk",
		Currency: "€",
		Emoji:    "💳",
		Footer:   "Credit Risk Predictor | XGBoost + Go",
	}
}

type jobChoice struct {
	Value int
	Label string
}

type verdictView struct {
	Good    bool
	Label   string
	Percent int
}

type summaryView struct {
	Applicant string
	JobLevel  string
	Loan      string
	Housing   string
}

type pageData struct {
	UI          UIConfig
	AuthEnabled bool
	Username    string
	Error       string

	// login
	LoginName string

	// form
	Applicant        domain.Applicant
	Sexes            []string
	Housings         []string
	SavingAccounts   []string
	CheckingAccounts []string
	Jobs             []jobChoice
	Verdict          *verdictView
	Summary          *summaryView
}

// defaultApplicant pre-fills the form.
var defaultApplicant = domain.Applicant{
	Age:             30,
	Sex:             "male",
	Job:             1,
	Housing:         "own",
	SavingAccount:   "little",
	CheckingAccount: "little",
	CreditAmount:    1000,
	DurationMonths:  12,
}

// pages renders the embedded HTML templates.
type pages struct {
	ui    UIConfig
	login *template.Template
	form  *template.Template
}

func newPages(ui UIConfig) (*pages, error) {
	p := &pages{ui: ui}

	parse := func(name string) (*template.Template, error) {
		return template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name)
	}

	var err error
	if p.login, err = parse("login.html"); err != nil {
		return nil, fmt.Errorf("parse login page: %w", err)
	}
	if p.form, err = parse("form.html"); err != nil {
		return nil, fmt.Errorf("parse form page: %w", err)
	}
	return p, nil
}

func (p *pages) data() pageData {
	jobs := make([]jobChoice, len(domain.JobLabels))
	for i, l := range domain.JobLabels {
		jobs[i] = jobChoice{Value: i, Label: l}
	}
	return pageData{
		UI:               p.ui,
		Applicant:        defaultApplicant,
		Sexes:            domain.SexValues,
		Housings:         domain.HousingValues,
		SavingAccounts:   domain.SavingAccountValues,
		CheckingAccounts: domain.CheckingAccountValues,
		Jobs:             jobs,
	}
}

// summary builds the two application summary cards.
func (p *pages) summary(a domain.Applicant) *summaryView {
	return &summaryView{
		Applicant: fmt.Sprintf("%d years old, %s", a.Age, titleCase(a.Sex)),
		JobLevel:  fmt.Sprintf("Job Level: %d / %d", a.Job, domain.MaxJob),
		Loan:      fmt.Sprintf("%s%s for %d months", p.ui.Currency, humanize.Comma(int64(a.CreditAmount)), a.DurationMonths),
		Housing:   "Housing: " + titleCase(a.Housing),
	}
}

// titleCase builds a new Caser per call; a Caser must not be shared across
// goroutines.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func verdict(pred domain.Prediction) *verdictView {
	label := "BAD RISK"
	if pred.Good() {
		label = "GOOD RISK"
	}
	return &verdictView{Good: pred.Good(), Label: label, Percent: pred.Percent()}
}

// render executes t into a buffer first so a template failure never leaves a
// half written page behind.
func (p *pages) render(w http.ResponseWriter, r *http.Request, t *template.Template, code int, data pageData) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", "page", t.Name(), "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
