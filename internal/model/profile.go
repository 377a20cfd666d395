package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ContractType is the billing commitment of a customer.
type ContractType string

const (
	ContractMonthly   ContractType = "Monthly"
	ContractQuarterly ContractType = "Quarterly"
	ContractAnnual    ContractType = "Annual"
	ContractTwoYear   ContractType = "TwoYear"
)

// PaymentMethod is how a customer pays.
type PaymentMethod string

const (
	PaymentElectronic   PaymentMethod = "Electronic"
	PaymentCreditCard   PaymentMethod = "CreditCard"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentManual       PaymentMethod = "Manual"
)

// CustomerType is the coarse customer segment.
type CustomerType string

const (
	CustomerYoungProfessional CustomerType = "YoungProfessional"
	CustomerFamilyUser        CustomerType = "FamilyUser"
	CustomerSeniorCitizen     CustomerType = "SeniorCitizen"
	CustomerStudent           CustomerType = "Student"
	CustomerBusinessUser      CustomerType = "BusinessUser"
)

// Display labels, in the order a form should offer them.
var (
	ContractTypes  = []ContractType{ContractMonthly, ContractQuarterly, ContractAnnual, ContractTwoYear}
	PaymentMethods = []PaymentMethod{PaymentElectronic, PaymentCreditCard, PaymentBankTransfer, PaymentManual}
	CustomerTypes  = []CustomerType{
		CustomerYoungProfessional, CustomerFamilyUser, CustomerSeniorCitizen,
		CustomerStudent, CustomerBusinessUser,
	}
)

var labels = map[string]string{
	string(ContractTwoYear):           "Two-Year",
	string(PaymentCreditCard):         "Credit Card",
	string(PaymentBankTransfer):       "Bank Transfer",
	string(CustomerYoungProfessional): "Young Professional",
	string(CustomerFamilyUser):        "Family User",
	string(CustomerSeniorCitizen):     "Senior Citizen",
	string(CustomerBusinessUser):      "Business User",
}

// Label returns the human-readable name ("Two-Year"). Unknown values are returned as-is.
func (c ContractType) Label() string { return label(string(c)) }

// Label returns the human-readable name ("Credit Card").
func (p PaymentMethod) Label() string { return label(string(p)) }

// Label returns the human-readable name ("Young Professional").
func (t CustomerType) Label() string { return label(string(t)) }

func label(s string) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return s
}

// ParseContractType maps a canonical name ("TwoYear") or its exact display
// label ("Two-Year") to a ContractType. Matching is case-sensitive; anything
// else is kept verbatim so it scores with the default weight.
func ParseContractType(s string) ContractType {
	for _, c := range ContractTypes {
		if s == string(c) || s == c.Label() {
			return c
		}
	}
	return ContractType(s)
}

// ParsePaymentMethod maps a canonical name or exact label to a PaymentMethod.
func ParsePaymentMethod(s string) PaymentMethod {
	for _, p := range PaymentMethods {
		if s == string(p) || s == p.Label() {
			return p
		}
	}
	return PaymentMethod(s)
}

// ParseCustomerType maps a canonical name or exact label to a CustomerType.
func ParseCustomerType(s string) CustomerType {
	for _, t := range CustomerTypes {
		if s == string(t) || s == t.Label() {
			return t
		}
	}
	return CustomerType(s)
}

// CustomerProfile is the scoring input. It lives only for one scoring call.
type CustomerProfile struct {
	Age            int           `json:"age" yaml:"age"`
	TenureMonths   int           `json:"tenure_months" yaml:"tenure_months"`
	MonthlyCharges float64       `json:"monthly_charges" yaml:"monthly_charges"`
	SupportCalls   int           `json:"support_calls" yaml:"support_calls"`
	ContractType   ContractType  `json:"contract_type" yaml:"contract_type"`
	PaymentMethod  PaymentMethod `json:"payment_method" yaml:"payment_method"`
	CustomerType   CustomerType  `json:"customer_type" yaml:"customer_type"`
}

// Normalize returns a copy with enum fields mapped to their canonical names.
func (p CustomerProfile) Normalize() CustomerProfile {
	p.ContractType = ParseContractType(string(p.ContractType))
	p.PaymentMethod = ParsePaymentMethod(string(p.PaymentMethod))
	p.CustomerType = ParseCustomerType(string(p.CustomerType))
	return p
}

// Digest returns "sha256:<hex>" over the canonical JSON encoding of the profile.
// Audit records carry the digest instead of the attributes.
func (p CustomerProfile) Digest() string {
	data, _ := json.Marshal(p.Normalize())
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}
