package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayrollPolicy_OverlaysDefaults(t *testing.T) {
	p, err := ParsePayrollPolicy([]byte(`
[payroll]
insurance = 250
tax_rate = 0.1
`))
	require.NoError(t, err)
	assert.Equal(t, "250", p.Insurance.String())
	assert.Equal(t, "0.1", p.TaxRate.String())
	assert.Equal(t, "3000", p.BaseSalary.String())
	assert.Equal(t, "0.12", p.ProvidentFundPct.String())
}

func TestParsePayrollPolicy_RejectsBadRate(t *testing.T) {
	_, err := ParsePayrollPolicy([]byte("[payroll]\ntax_rate = 1.5\n"))
	assert.Error(t, err)
}

func TestParsePayrollPolicy_Empty(t *testing.T) {
	p, err := ParsePayrollPolicy(nil)
	require.NoError(t, err)
	assert.True(t, p.TaxRate.Equal(DefaultPayrollPolicy().TaxRate))
}
