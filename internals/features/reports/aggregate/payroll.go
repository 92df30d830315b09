package aggregate

import (
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/configs"
)

// PayrollInput are the per-teacher facts the salary formula depends on.
type PayrollInput struct {
	ExperienceYears int             `json:"experience_years"`
	ClassCount      int             `json:"class_count"`
	SubjectCount    int             `json:"subject_count"`
	Overtime        decimal.Decimal `json:"overtime"`
}

type PayrollBreakdown struct {
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Overtime      decimal.Decimal `json:"overtime"`
	GrossSalary   decimal.Decimal `json:"gross_salary"`
	TaxDeducted   decimal.Decimal `json:"tax_deducted"`
	Insurance     decimal.Decimal `json:"insurance"`
	ProvidentFund decimal.Decimal `json:"provident_fund"`
	NetSalary     decimal.Decimal `json:"net_salary"`
}

// ComputePayroll derives a salary slip; every amount is rounded to cents at the end.
func ComputePayroll(p configs.PayrollPolicy, in PayrollInput) PayrollBreakdown {
	base := p.BaseSalary.Add(p.PerExperience.Mul(decimal.NewFromInt(int64(in.ExperienceYears))))
	allowances := p.PerClass.Mul(decimal.NewFromInt(int64(in.ClassCount))).
		Add(p.PerSubject.Mul(decimal.NewFromInt(int64(in.SubjectCount)))).
		Add(p.FixedAllowance)
	overtime := in.Overtime
	gross := base.Add(allowances).Add(overtime)
	tax := gross.Mul(p.TaxRate)
	provident := base.Mul(p.ProvidentFundPct)
	net := gross.Sub(tax.Add(p.Insurance).Add(provident))

	return PayrollBreakdown{
		BaseSalary:    base.Round(2),
		Allowances:    allowances.Round(2),
		Overtime:      overtime.Round(2),
		GrossSalary:   gross.Round(2),
		TaxDeducted:   tax.Round(2),
		Insurance:     p.Insurance.Round(2),
		ProvidentFund: provident.Round(2),
		NetSalary:     net.Round(2),
	}
}
