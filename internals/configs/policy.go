package configs

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// PayrollPolicy holds the salary formula constants.
type PayrollPolicy struct {
	BaseSalary       decimal.Decimal
	PerExperience    decimal.Decimal
	PerClass         decimal.Decimal
	PerSubject       decimal.Decimal
	FixedAllowance   decimal.Decimal
	TaxRate          decimal.Decimal
	Insurance        decimal.Decimal
	ProvidentFundPct decimal.Decimal
}

type policyFile struct {
	Payroll struct {
		BaseSalary     *float64 `toml:"base_salary"`
		PerExperience  *float64 `toml:"per_experience_year"`
		PerClass       *float64 `toml:"per_class"`
		PerSubject     *float64 `toml:"per_subject"`
		FixedAllowance *float64 `toml:"fixed_allowance"`
		TaxRate        *float64 `toml:"tax_rate"`
		Insurance      *float64 `toml:"insurance"`
		ProvidentRate  *float64 `toml:"provident_fund_rate"`
	} `toml:"payroll"`
}

func DefaultPayrollPolicy() PayrollPolicy {
	return PayrollPolicy{
		BaseSalary:       decimal.NewFromInt(3000),
		PerExperience:    decimal.NewFromInt(200),
		PerClass:         decimal.NewFromInt(200),
		PerSubject:       decimal.NewFromInt(150),
		FixedAllowance:   decimal.NewFromInt(300),
		TaxRate:          decimal.RequireFromString("0.15"),
		Insurance:        decimal.NewFromInt(200),
		ProvidentFundPct: decimal.RequireFromString("0.12"),
	}
}

// ParsePayrollPolicy overlays the values present in data on top of the defaults.
func ParsePayrollPolicy(data []byte) (PayrollPolicy, error) {
	p := DefaultPayrollPolicy()
	var f policyFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return p, fmt.Errorf("parse payroll policy: %w", err)
	}
	set := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}
	set(&p.BaseSalary, f.Payroll.BaseSalary)
	set(&p.PerExperience, f.Payroll.PerExperience)
	set(&p.PerClass, f.Payroll.PerClass)
	set(&p.PerSubject, f.Payroll.PerSubject)
	set(&p.FixedAllowance, f.Payroll.FixedAllowance)
	set(&p.TaxRate, f.Payroll.TaxRate)
	set(&p.Insurance, f.Payroll.Insurance)
	set(&p.ProvidentFundPct, f.Payroll.ProvidentRate)

	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return p, fmt.Errorf("tax_rate must be between 0 and 1")
	}
	return p, nil
}

// LoadPayrollPolicy reads PAYROLL_POLICY_FILE when set, defaults otherwise.
func LoadPayrollPolicy() PayrollPolicy {
	path := GetEnv("PAYROLL_POLICY_FILE")
	if path == "" {
		return DefaultPayrollPolicy()
	}
	log := Logger("config")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("[CONFIG] payroll policy unreadable, using defaults")
		return DefaultPayrollPolicy()
	}
	p, err := ParsePayrollPolicy(data)
	if err != nil {
		log.Error().Err(err).Msg("[CONFIG] payroll policy invalid, using defaults")
		return DefaultPayrollPolicy()
	}
	return p
}
