package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/payroll/dto"
	"schoolhub_backend/internals/features/finance/payroll/model"
	"schoolhub_backend/internals/features/reports/aggregate"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/metrics"
)

type PayrollService struct {
	DB     *gorm.DB
	Policy configs.PayrollPolicy
	Now    func() time.Time
}

func NewPayrollService(db *gorm.DB, policy configs.PayrollPolicy) *PayrollService {
	return &PayrollService{DB: db, Policy: policy, Now: time.Now}
}

// Input gathers the salary facts for one teacher: experience, distinct classes
// (homeroom or subject teaching) and qualified subjects.
func (s *PayrollService) Input(ctx context.Context, teacher userModel.UserModel) (aggregate.PayrollInput, error) {
	in := aggregate.PayrollInput{ExperienceYears: teacher.Experience, Overtime: decimal.Zero}

	var homeroom, teaching []uuid.UUID
	var subjects int64
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
				Where("class_teacher_id = ?", teacher.ID).Pluck("class_id", &homeroom).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&classModel.ClassSubjectModel{}).
				Where("class_subject_teacher_id = ?", teacher.ID).Pluck("class_subject_class_id", &teaching).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&subjectModel.TeacherSubjectModel{}).
				Where("teacher_subject_teacher_id = ?", teacher.ID).Count(&subjects).Error
		},
	)
	if err := errors.Join(errs...); err != nil {
		return in, pkgErrors.Wrap(err, "load payroll input")
	}

	classes := make(map[uuid.UUID]struct{}, len(homeroom)+len(teaching))
	for _, id := range append(homeroom, teaching...) {
		classes[id] = struct{}{}
	}
	in.ClassCount = len(classes)
	in.SubjectCount = int(subjects)
	return in, nil
}

func (s *PayrollService) loadTeacher(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := s.DB.WithContext(ctx).Where("id = ? AND role = ?", id, constants.RoleTeacher).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("Teacher not found")
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "load teacher")
	}
	return &u, nil
}

// Preview computes the current month's slip for a teacher without saving it.
func (s *PayrollService) Preview(ctx context.Context, teacherID uuid.UUID, overtime decimal.Decimal) (*dto.Preview, error) {
	t, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	in, err := s.Input(ctx, *t)
	if err != nil {
		return nil, err
	}
	in.Overtime = overtime
	return &dto.Preview{TeacherID: t.ID, Input: in, Breakdown: aggregate.ComputePayroll(s.Policy, in)}, nil
}

func parseOvertime(raw map[string]decimal.Decimal) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(raw))
	for k, v := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, helper.NewFieldError("overtime", fmt.Sprintf("invalid teacher id %q", k))
		}
		if v.IsNegative() {
			return nil, helper.NewFieldError("overtime", "overtime must not be negative")
		}
		out[id] = v
	}
	return out, nil
}

// Generate creates one PENDING record per active teacher for the period.
// Teachers that already have a record are skipped, so reruns are safe.
func (s *PayrollService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResult, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	overtime, err := parseOvertime(req.Overtime)
	if err != nil {
		return nil, err
	}

	var teachers []userModel.UserModel
	if err := s.DB.WithContext(ctx).
		Where("role = ? AND is_active = ?", constants.RoleTeacher, true).
		Order("full_name ASC").Find(&teachers).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "list teachers")
	}

	log := configs.Logger("payroll").With().Int("year", req.Year).Int("month", req.Month).Logger()
	res := &dto.GenerateResult{Year: req.Year, Month: req.Month, Errors: []dto.GenerateError{}}
	for _, t := range teachers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		in, err := s.Input(ctx, t)
		if err != nil {
			res.Errors = append(res.Errors, dto.GenerateError{TeacherID: t.ID, Error: err.Error()})
			metrics.PayrollGenerated.WithLabelValues("error").Inc()
			continue
		}
		if ot, ok := overtime[t.ID]; ok {
			in.Overtime = ot
		}
		rec := dto.ToModel(t.ID, req.Year, req.Month, aggregate.ComputePayroll(s.Policy, in))
		rec.PayrollStatus = constants.PayrollPending

		tx := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payroll_employee_id"}, {Name: "payroll_pay_year"}, {Name: "payroll_pay_month"}},
			DoNothing: true,
		}).Create(rec)
		switch {
		case tx.Error != nil:
			res.Errors = append(res.Errors, dto.GenerateError{TeacherID: t.ID, Error: tx.Error.Error()})
			metrics.PayrollGenerated.WithLabelValues("error").Inc()
		case tx.RowsAffected == 0:
			res.Skipped++
			metrics.PayrollGenerated.WithLabelValues("skipped").Inc()
		default:
			res.Generated++
			metrics.PayrollGenerated.WithLabelValues("generated").Inc()
		}
	}
	log.Info().Int("generated", res.Generated).Int("skipped", res.Skipped).Int("errors", len(res.Errors)).
		Msg("[PAYROLL][GENERATE] done")
	return res, nil
}

type payrollRow struct {
	model.PayrollRecordModel
	EmployeeName string `gorm:"column:employee_name"`
}

func (s *PayrollService) List(ctx context.Context, q helper.ListQuery, f dto.PayrollFilter) ([]dto.PayrollResponse, int64, error) {
	tx := s.DB.WithContext(ctx).Table("payroll_records AS p").
		Joins("LEFT JOIN users u ON u.id = p.payroll_employee_id")
	if f.Year > 0 {
		tx = tx.Where("p.payroll_pay_year = ?", f.Year)
	}
	if f.Month > 0 {
		tx = tx.Where("p.payroll_pay_month = ?", f.Month)
	}
	if f.Status != "" {
		tx = tx.Where("p.payroll_status = ?", f.Status)
	}
	if f.EmployeeID != nil {
		tx = tx.Where("p.payroll_employee_id = ?", *f.EmployeeID)
	}
	tx = helper.ApplySearch(tx, q.Search, "u.full_name").Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []dto.PayrollResponse{}, 0, pkgErrors.Wrap(err, "count payroll")
	}
	var rows []payrollRow
	if err := tx.Select("p.*, u.full_name AS employee_name").
		Order("p.payroll_pay_year DESC, p.payroll_pay_month DESC, u.full_name ASC").
		Limit(q.Limit).Offset(q.Offset).Scan(&rows).Error; err != nil {
		return []dto.PayrollResponse{}, total, pkgErrors.Wrap(err, "list payroll")
	}
	out := make([]dto.PayrollResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r.PayrollRecordModel, r.EmployeeName))
	}
	return out, total, nil
}

func (s *PayrollService) Get(ctx context.Context, id uuid.UUID) (*model.PayrollRecordModel, error) {
	var m model.PayrollRecordModel
	if err := s.DB.WithContext(ctx).First(&m, "payroll_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Payroll record not found")
		}
		return nil, pkgErrors.Wrap(err, "load payroll")
	}
	return &m, nil
}

var nextStatus = map[string]string{
	constants.PayrollPending:   constants.PayrollProcessed,
	constants.PayrollProcessed: constants.PayrollPaid,
}

// SetStatus advances PENDING → PROCESSED → PAID one step at a time; PAID stamps paid_at.
func (s *PayrollService) SetStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*model.PayrollRecordModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.PayrollStatus == req.Status {
		return m, nil
	}
	if nextStatus[m.PayrollStatus] != req.Status {
		return nil, helper.Conflict("Cannot change payroll from " + m.PayrollStatus + " to " + req.Status)
	}
	updates := map[string]any{"payroll_status": req.Status}
	if req.Status == constants.PayrollPaid {
		updates["payroll_paid_at"] = s.Now()
	}
	res := s.DB.WithContext(ctx).Model(&model.PayrollRecordModel{}).
		Where("payroll_id = ? AND payroll_status = ?", id, m.PayrollStatus).Updates(updates)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "update payroll status")
	}
	if res.RowsAffected == 0 {
		return nil, helper.Conflict("Payroll record was modified concurrently")
	}
	return s.Get(ctx, id)
}
