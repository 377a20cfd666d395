package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// option is one radio button or dropdown entry.
type option struct {
	Value    string
	Label    string
	Selected bool
}

// page is the data rendered into the form template.
type page struct {
	Age            string
	TenureMonths   string
	MonthlyCharges string
	SupportCalls   string
	Contracts      []option
	Payments       []option
	CustomerTypes  []option
	Report         string
}

// defaultForm holds the initial slider and choice positions.
func defaultForm() scoring.RawProfile {
	return scoring.RawProfile{
		Age:            "35",
		TenureMonths:   "12",
		MonthlyCharges: "75",
		SupportCalls:   "2",
		ContractType:   scoring.Field(model.ContractMonthly),
		PaymentMethod:  scoring.Field(model.PaymentCreditCard),
		CustomerType:   scoring.Field(model.CustomerYoungProfessional),
	}
}

// formProfile reads the seven form fields from a parsed request.
func formProfile(r *http.Request) scoring.RawProfile {
	return scoring.RawProfile{
		Age:            scoring.Field(r.PostFormValue("age")),
		TenureMonths:   scoring.Field(r.PostFormValue("tenure_months")),
		MonthlyCharges: scoring.Field(r.PostFormValue("monthly_charges")),
		SupportCalls:   scoring.Field(r.PostFormValue("support_calls")),
		ContractType:   scoring.Field(r.PostFormValue("contract_type")),
		PaymentMethod:  scoring.Field(r.PostFormValue("payment_method")),
		CustomerType:   scoring.Field(r.PostFormValue("customer_type")),
	}
}

func newPage(raw scoring.RawProfile, report string) page {
	contract := model.ParseContractType(string(raw.ContractType))
	payment := model.ParsePaymentMethod(string(raw.PaymentMethod))
	customer := model.ParseCustomerType(string(raw.CustomerType))

	p := page{
		Age:            string(raw.Age),
		TenureMonths:   string(raw.TenureMonths),
		MonthlyCharges: string(raw.MonthlyCharges),
		SupportCalls:   string(raw.SupportCalls),
		Report:         report,
	}
	for _, c := range model.ContractTypes {
		p.Contracts = append(p.Contracts, option{string(c), c.Label(), c == contract})
	}
	for _, m := range model.PaymentMethods {
		p.Payments = append(p.Payments, option{string(m), m.Label(), m == payment})
	}
	for _, t := range model.CustomerTypes {
		p.CustomerTypes = append(p.CustomerTypes, option{string(t), t.Label(), t == customer})
	}
	return p
}
