// Package churnwatch provides in-process churn risk scoring for Go services.
// It scores a customer profile against the same weights, audit log and
// history database the churnwatch CLI and servers use, and can gate
// retention actions on the resulting risk level.
//
// Usage:
//
//	cw, err := churnwatch.New(churnwatch.WithWeights("weights.yaml"))
//	a, err := cw.Score(ctx, churnwatch.Customer{
//	    Age:            35,
//	    TenureMonths:   12,
//	    MonthlyCharges: 75,
//	    SupportCalls:   2,
//	    Contract:       "Monthly",
//	    Payment:        "Credit Card",
//	    Type:           "Young Professional",
//	})
//	fmt.Println(a.Level, a.Score) // HIGH 66
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ppiankov/churnwatch/sdk/go/churnwatch.
package churnwatch
