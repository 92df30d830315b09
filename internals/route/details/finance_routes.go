package details

import (
	"github.com/gofiber/fiber/v2"

	expenseRoute "schoolhub_backend/internals/features/finance/expenses/route"
	expenseService "schoolhub_backend/internals/features/finance/expenses/service"
	feeRoute "schoolhub_backend/internals/features/finance/fees/route"
	feeService "schoolhub_backend/internals/features/finance/fees/service"
	payrollRoute "schoolhub_backend/internals/features/finance/payroll/route"
	payrollService "schoolhub_backend/internals/features/finance/payroll/service"
	summaryRoute "schoolhub_backend/internals/features/finance/summary/route"
	summaryService "schoolhub_backend/internals/features/finance/summary/service"
)

// Finance bundles fees, expenses, payroll and the summary report.
type Finance struct {
	Fees     *feeService.FeeService
	Expenses *expenseService.ExpenseService
	Payroll  *payrollService.PayrollService
	Summary  *summaryService.SummaryService
}

// FinancePublicRoutes mounts under /api; the payment gateway calls it unauthenticated.
func FinancePublicRoutes(r fiber.Router, f Finance) {
	feeRoute.PublicRoutes(r, f.Fees)
}

func FinanceUserRoutes(r fiber.Router, f Finance) {
	feeRoute.FamilyRoutes(r, f.Fees)
}

func FinanceAdminRoutes(r fiber.Router, f Finance) {
	feeRoute.AdminRoutes(r, f.Fees)
	expenseRoute.AdminRoutes(r, f.Expenses)
	payrollRoute.AdminRoutes(r, f.Payroll)
	summaryRoute.AdminRoutes(r, f.Summary)
}
