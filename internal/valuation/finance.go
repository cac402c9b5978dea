package valuation

import "math"

// Financing assumptions for the deterministic investment analysis. Rates are
// placeholders for the current lending market, not live quotes.
const (
	defaultMonthlyRate     = 1.5 // percent per month
	defaultTermMonths      = 120
	rentalYieldMonthly     = 0.005 // monthly rent as a share of value
	annualAppreciationRate = 0.15
)

// LoanScenario is one down-payment option for financing a property.
type LoanScenario struct {
	DownPaymentPercentage int     `json:"downPaymentPercentage"`
	DownPaymentAmount     float64 `json:"downPaymentAmount"`
	LoanAmount            float64 `json:"loanAmount"`
	TermMonths            int     `json:"term"`
	MonthlyPayment        float64 `json:"monthlyPayment"`
	TotalPayment          float64 `json:"totalPayment"`
	TotalInterest         float64 `json:"totalInterest"`
}

// RentalEstimate projects rental income for the property.
type RentalEstimate struct {
	MonthlyRental float64 `json:"monthlyRental"`
	AnnualRental  float64 `json:"annualRental"`
	RentalYield   float64 `json:"rentalYield"`
}

// AppreciationEstimate projects value growth at the assumed annual rate.
type AppreciationEstimate struct {
	AnnualAppreciationRate float64 `json:"annualAppreciationRate"`
	ValueAfter5Years       float64 `json:"valueAfter5Years"`
	ValueAfter10Years      float64 `json:"valueAfter10Years"`
}

// InvestmentAnalysis is the deterministic financing breakdown for an
// estimated property value.
type InvestmentAnalysis struct {
	LoanScenarios []LoanScenario       `json:"loanScenarios"`
	Rental        RentalEstimate       `json:"rentalEstimate"`
	Appreciation  AppreciationEstimate `json:"appreciationEstimate"`
}

// MonthlyPayment computes the fixed annuity payment for a loan at a monthly
// interest rate given in percent. A zero rate degrades to straight-line
// repayment.
func MonthlyPayment(loanAmount, monthlyRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 || loanAmount <= 0 {
		return 0
	}
	rate := monthlyRatePercent / 100
	if rate == 0 {
		return math.Round(loanAmount / float64(termMonths))
	}
	growth := math.Pow(1+rate, float64(termMonths))
	return math.Round(loanAmount * rate * growth / (growth - 1))
}

// AnalyzeInvestment builds loan scenarios at 20/30/50 percent down plus
// rental and appreciation projections for the estimated value.
func AnalyzeInvestment(estimatedPrice float64) InvestmentAnalysis {
	scenarios := make([]LoanScenario, 0, 3)
	for _, downPct := range []int{20, 30, 50} {
		downPayment := estimatedPrice * float64(downPct) / 100
		loanAmount := estimatedPrice - downPayment
		monthly := MonthlyPayment(loanAmount, defaultMonthlyRate, defaultTermMonths)
		total := monthly * defaultTermMonths

		scenarios = append(scenarios, LoanScenario{
			DownPaymentPercentage: downPct,
			DownPaymentAmount:     downPayment,
			LoanAmount:            loanAmount,
			TermMonths:            defaultTermMonths,
			MonthlyPayment:        monthly,
			TotalPayment:          total,
			TotalInterest:         total - loanAmount,
		})
	}

	monthlyRental := math.Round(estimatedPrice * rentalYieldMonthly)

	return InvestmentAnalysis{
		LoanScenarios: scenarios,
		Rental: RentalEstimate{
			MonthlyRental: monthlyRental,
			AnnualRental:  monthlyRental * 12,
			RentalYield:   rentalYieldMonthly * 12 * 100,
		},
		Appreciation: AppreciationEstimate{
			AnnualAppreciationRate: annualAppreciationRate * 100,
			ValueAfter5Years:       math.Round(estimatedPrice * math.Pow(1+annualAppreciationRate, 5)),
			ValueAfter10Years:      math.Round(estimatedPrice * math.Pow(1+annualAppreciationRate, 10)),
		},
	}
}
