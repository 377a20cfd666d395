package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/churnwatch/internal/model"
)

// Render formats a report as the fixed multi-section text shown to users.
func Render(r model.RiskReport) string {
	p := r.Profile
	var b strings.Builder

	b.WriteString("\n**CUSTOMER CHURN RISK ASSESSMENT**\n\n")
	fmt.Fprintf(&b, "🎯 **Risk Level**: %s\n", r.RiskLevel.Display())
	fmt.Fprintf(&b, "📊 **Risk Score**: %d/100\n", r.RiskScore)
	fmt.Fprintf(&b, "📈 **Churn Probability**: %s\n\n", r.Probability)

	b.WriteString("**CUSTOMER PROFILE:**\n")
	fmt.Fprintf(&b, "• Age: %d years\n", p.Age)
	// The tenure line carries two trailing spaces, a Markdown hard break.
	fmt.Fprintf(&b, "• Tenure: %d months  \n", p.TenureMonths)
	fmt.Fprintf(&b, "• Monthly Charges: $%s\n", FormatCharges(p.MonthlyCharges))
	fmt.Fprintf(&b, "• Support Calls: %d this month\n", p.SupportCalls)
	fmt.Fprintf(&b, "• Contract: %s\n", p.ContractType.Label())
	fmt.Fprintf(&b, "• Payment: %s\n", p.PaymentMethod.Label())
	fmt.Fprintf(&b, "• Profile: %s\n\n", p.CustomerType.Label())

	b.WriteString("**💡 RETENTION STRATEGY:**\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	b.WriteString("\n---\n*AI-powered business intelligence for customer retention*\n")
	return b.String()
}

// FormatCharges prints the shortest exact decimal form: 75 → "75", 75.5 → "75.5".
func FormatCharges(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
