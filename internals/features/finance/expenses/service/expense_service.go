package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/expenses/dto"
	"schoolhub_backend/internals/features/finance/expenses/model"
	helper "schoolhub_backend/internals/helpers"
)

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	constants.ExpensePending:  {constants.ExpenseApproved, constants.ExpenseRejected},
	constants.ExpenseApproved: {constants.ExpensePaid, constants.ExpenseRejected},
}

// CanTransition reports whether an expense may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ExpenseService struct {
	DB *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{DB: db}
}

func (s *ExpenseService) filtered(ctx context.Context, f dto.ExpenseFilter) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&model.ExpenseModel{})
	tx = helper.ApplyEquals(tx, map[string]any{
		"expense_category": f.Category,
		"expense_status":   f.Status,
	})
	if f.Year > 0 {
		tx = tx.Where("expense_fiscal_year = ?", f.Year)
	}
	if f.Month > 0 {
		tx = tx.Where("expense_fiscal_month = ?", f.Month)
	}
	return tx
}

func (s *ExpenseService) List(ctx context.Context, q helper.ListQuery, f dto.ExpenseFilter) (helper.Page[model.ExpenseModel], error) {
	tx := helper.ApplySearch(s.filtered(ctx, f), q.Search, "expense_title", "expense_vendor")
	return helper.FetchPage[model.ExpenseModel](ctx, tx, q, "expense_date DESC")
}

func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*model.ExpenseModel, error) {
	var m model.ExpenseModel
	if err := s.DB.WithContext(ctx).First(&m, "expense_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Expense not found")
		}
		return nil, pkgErrors.Wrap(err, "load expense")
	}
	return &m, nil
}

func (s *ExpenseService) Create(ctx context.Context, req dto.CreateExpenseRequest) (*model.ExpenseModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if !req.ExpenseAmount.IsPositive() {
		return nil, helper.NewFieldError("expense_amount", "expense_amount must be greater than 0")
	}
	m := req.ToModel(constants.ExpensePending)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create expense")
	}
	return m, nil
}

// Update edits the fields of an expense that is still PENDING.
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateExpenseRequest) (*model.ExpenseModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if req.ExpenseAmount != nil && !req.ExpenseAmount.IsPositive() {
		return nil, helper.NewFieldError("expense_amount", "expense_amount must be greater than 0")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ExpenseStatus != constants.ExpensePending {
		return nil, helper.Conflict("Only pending expenses can be edited")
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update expense")
	}
	return s.Get(ctx, id)
}

// SetStatus moves an expense along PENDING → APPROVED → PAID; PENDING and APPROVED may be REJECTED.
func (s *ExpenseService) SetStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*model.ExpenseModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ExpenseStatus == req.Status {
		return m, nil
	}
	if !CanTransition(m.ExpenseStatus, req.Status) {
		return nil, helper.Conflict("Cannot change expense from " + m.ExpenseStatus + " to " + req.Status)
	}
	res := s.DB.WithContext(ctx).Model(&model.ExpenseModel{}).
		Where("expense_id = ? AND expense_status = ?", id, m.ExpenseStatus).
		Update("expense_status", req.Status)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "update expense status")
	}
	if res.RowsAffected == 0 {
		return nil, helper.Conflict("Expense was modified concurrently")
	}
	configs.Logger("expenses").Info().
		Str("expense_id", id.String()).Str("from", m.ExpenseStatus).Str("to", req.Status).
		Msg("[EXPENSE][STATUS] changed")
	return s.Get(ctx, id)
}

// Delete removes PENDING or REJECTED expenses; approved spending stays on the books.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.ExpenseStatus == constants.ExpenseApproved || m.ExpenseStatus == constants.ExpensePaid {
		return helper.Conflict("Approved or paid expenses cannot be deleted")
	}
	return s.DB.WithContext(ctx).Delete(&model.ExpenseModel{}, "expense_id = ?", id).Error
}
