package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/dashboard/dto"
	feeModel "schoolhub_backend/internals/features/finance/fees/model"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	studentDTO "schoolhub_backend/internals/features/school/students/dto"
	studentService "schoolhub_backend/internals/features/school/students/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

const upcomingLimit = 5

func (s *DashboardService) countUsers(ctx context.Context, role string, n *int64) error {
	return s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("role = ? AND is_active = ?", role, true).Count(n).Error
}

// upcomingExams lists exams from today on; nil classIDs means every class.
func (s *DashboardService) upcomingExams(ctx context.Context, classIDs []uuid.UUID) ([]dto.UpcomingExam, error) {
	out := []dto.UpcomingExam{}
	if classIDs != nil && len(classIDs) == 0 {
		return out, nil
	}
	tx := s.DB.WithContext(ctx).Table("exams AS e").
		Select(`e.exam_id, e.exam_title, e.exam_type, e.exam_date,
			COALESCE(c.class_name, '') AS class_name, COALESCE(sb.subject_name, '') AS subject_name`).
		Joins("LEFT JOIN classes c ON c.class_id = e.exam_class_id").
		Joins("LEFT JOIN subjects sb ON sb.subject_id = e.exam_subject_id").
		Where("e.exam_deleted_at IS NULL AND e.exam_date >= ?", today(s.Now()))
	if classIDs != nil {
		tx = tx.Where("e.exam_class_id IN ?", classIDs)
	}
	err := tx.Order("e.exam_date ASC").Limit(upcomingLimit).Scan(&out).Error
	return out, err
}

type paidRow struct {
	FeeID  uuid.UUID       `gorm:"column:fee_payment_fee_id"`
	Amount decimal.Decimal `gorm:"column:fee_payment_amount_paid"`
}

// feesDue lists fees that apply to the student and are not fully paid, earliest due first.
func (s *DashboardService) feesDue(ctx context.Context, student userModel.UserModel) ([]dto.FeeDue, error) {
	out := []dto.FeeDue{}
	var fees []feeModel.FeeModel
	tx := s.DB.WithContext(ctx).Model(&feeModel.FeeModel{})
	if student.ClassID != nil {
		tx = tx.Where("fee_class_id IS NULL OR fee_class_id = ?", *student.ClassID)
	} else {
		tx = tx.Where("fee_class_id IS NULL")
	}
	if err := tx.Order("fee_due_date ASC").Find(&fees).Error; err != nil {
		return out, err
	}
	if len(fees) == 0 {
		return out, nil
	}

	var paid []paidRow
	if err := s.DB.WithContext(ctx).Model(&feeModel.FeePaymentModel{}).
		Select("fee_payment_fee_id, fee_payment_amount_paid").
		Where("fee_payment_student_id = ? AND fee_payment_status IN ?",
			student.ID, []string{constants.PaymentPaid, constants.PaymentPartial}).
		Scan(&paid).Error; err != nil {
		return out, err
	}
	byFee := aggregate.SumBy(paid,
		func(p paidRow) string { return p.FeeID.String() },
		func(p paidRow) decimal.Decimal { return p.Amount })

	for _, f := range fees {
		settled := byFee[f.FeeID.String()]
		left := f.FeeAmount.Sub(settled)
		if !left.IsPositive() {
			continue
		}
		out = append(out, dto.FeeDue{
			FeeID: f.FeeID, Name: f.FeeName, DueDate: f.FeeDueDate,
			Amount: f.FeeAmount, Paid: settled, Outstanding: left,
		})
	}
	return out, nil
}

func totalOutstanding(fees []dto.FeeDue) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range fees {
		sum = sum.Add(f.Outstanding)
	}
	return sum
}

/* ===================== admin ===================== */

func (s *DashboardService) admin(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error) {
	now := s.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	day := today(now)

	data := dto.AdminData{MonthRevenue: decimal.Zero, MonthExpenses: decimal.Zero}
	var revenue, expenses []decimal.Decimal
	var attendance []string

	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error { return s.countUsers(ctx, constants.RoleStudent, &data.Students) },
		func(ctx context.Context) error { return s.countUsers(ctx, constants.RoleTeacher, &data.Teachers) },
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("classes").Where("class_deleted_at IS NULL").Count(&data.Classes).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("admission_applications").
				Where("application_status IN ?", []string{constants.AdmissionPending, constants.AdmissionUnderReview}).
				Count(&data.PendingAdmissions).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("fee_payments").
				Where("fee_payment_status IN ?", []string{constants.PaymentPaid, constants.PaymentPartial}).
				Where("fee_payment_paid_at >= ? AND fee_payment_paid_at < ?", monthStart, monthStart.AddDate(0, 1, 0)).
				Pluck("fee_payment_amount_paid", &revenue).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("expenses").
				Where("expense_deleted_at IS NULL AND expense_fiscal_year = ? AND expense_fiscal_month = ?", now.Year(), int(now.Month())).
				Where("expense_status IN ?", []string{constants.ExpenseApproved, constants.ExpensePaid}).
				Pluck("expense_amount", &expenses).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("attendance_records").
				Where("attendance_session_date = ?", day).
				Pluck("attendance_status", &attendance).Error
		},
		func(ctx context.Context) (err error) { data.UpcomingExams, err = s.upcomingExams(ctx, nil); return },
		func(ctx context.Context) error {
			data.RecentApplications = []dto.RecentApplication{}
			return s.DB.WithContext(ctx).Table("admission_applications").
				Order("application_submitted_at DESC").Limit(upcomingLimit).
				Scan(&data.RecentApplications).Error
		},
	)
	partial := settle(constants.RoleAdmin, errs)

	for _, d := range revenue {
		data.MonthRevenue = data.MonthRevenue.Add(d)
	}
	for _, d := range expenses {
		data.MonthExpenses = data.MonthExpenses.Add(d)
	}
	counts := aggregate.CountBy(attendance, func(st string) string { return st })
	attended, total := studentService.Attended(counts)
	data.AttendanceToday = aggregate.AttendanceRate(attended, total)
	if data.UpcomingExams == nil {
		data.UpcomingExams = []dto.UpcomingExam{}
	}
	for i := range data.RecentApplications {
		data.RecentApplications[i].Style = presenter.StatusStyle(presenter.KindAdmission, data.RecentApplications[i].Status)
	}

	return &dto.Dashboard{
		Cards: []presenter.StatCard{
			presenter.CountCard("Students", data.Students, "Active"),
			presenter.CountCard("Teachers", data.Teachers, "Active"),
			presenter.CountCard("Classes", data.Classes, ""),
			presenter.CountCard("Pending Admissions", data.PendingAdmissions, "Pending and under review"),
			presenter.MoneyCard("Revenue", data.MonthRevenue, now.Format("January 2006")),
			presenter.MetricCard("Attendance Today", data.AttendanceToday, ""),
		},
		Data:    data,
		Partial: partial,
	}, nil
}

/* ===================== teacher ===================== */

func (s *DashboardService) teacher(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error) {
	data := dto.TeacherData{Classes: []dto.TeachingClass{}, UpcomingExams: []dto.UpcomingExam{}}
	var homeroom, teaching []dto.TeachingClass
	var ratings []float64

	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("classes").
				Select("class_id, class_name, class_grade").
				Where("class_deleted_at IS NULL AND class_teacher_id = ?", v.ID).
				Scan(&homeroom).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("class_subjects AS cs").
				Select("DISTINCT c.class_id, c.class_name, c.class_grade").
				Joins("JOIN classes c ON c.class_id = cs.class_subject_class_id AND c.class_deleted_at IS NULL").
				Where("cs.class_subject_teacher_id = ?", v.ID).
				Scan(&teaching).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("teacher_subjects").
				Where("teacher_subject_teacher_id = ?", v.ID).Count(&data.Subjects).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("performance_reviews").
				Where("review_teacher_id = ?", v.ID).
				Pluck("review_overall_rating", &ratings).Error
		},
	)
	partial := settle(constants.RoleTeacher, errs)

	seen := map[uuid.UUID]int{}
	for _, c := range homeroom {
		c.Homeroom = true
		seen[c.ClassID] = len(data.Classes)
		data.Classes = append(data.Classes, c)
	}
	for _, c := range teaching {
		if _, ok := seen[c.ClassID]; ok {
			continue
		}
		seen[c.ClassID] = len(data.Classes)
		data.Classes = append(data.Classes, c)
	}
	sort.SliceStable(data.Classes, func(i, j int) bool {
		if data.Classes[i].Grade != data.Classes[j].Grade {
			return data.Classes[i].Grade < data.Classes[j].Grade
		}
		return data.Classes[i].Name < data.Classes[j].Name
	})

	classIDs := make([]uuid.UUID, 0, len(data.Classes))
	for _, c := range data.Classes {
		classIDs = append(classIDs, c.ClassID)
	}
	var studentCounts []struct {
		ClassID uuid.UUID `gorm:"column:class_id"`
		N       int64     `gorm:"column:n"`
	}
	errs = helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			if len(classIDs) == 0 {
				return nil
			}
			return s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
				Select("class_id, COUNT(*) AS n").
				Where("role = ? AND class_id IN ?", constants.RoleStudent, classIDs).
				Group("class_id").Scan(&studentCounts).Error
		},
		func(ctx context.Context) (err error) { data.UpcomingExams, err = s.upcomingExams(ctx, classIDs); return },
	)
	partial = settle(constants.RoleTeacher, errs) || partial
	byClass := map[uuid.UUID]int64{}
	for _, r := range studentCounts {
		byClass[r.ClassID] = r.N
	}
	var students int64
	for i := range data.Classes {
		data.Classes[i].Students = byClass[data.Classes[i].ClassID]
		students += data.Classes[i].Students
	}
	if data.UpcomingExams == nil {
		data.UpcomingExams = []dto.UpcomingExam{}
	}

	data.Reviews = len(ratings)
	data.AverageRating = aggregate.Insufficient()
	if len(ratings) > 0 {
		data.AverageRating = aggregate.Measured(aggregate.Round(aggregate.Mean(ratings), 1))
	}
	rating := presenter.StatCard{Title: "Average Rating", Value: presenter.NotAvailable, Subtitle: fmt.Sprintf("%d reviews", data.Reviews)}
	if data.AverageRating.Sufficient() {
		rating.Value = fmt.Sprintf("%.1f / 5", *data.AverageRating.Value)
	}

	return &dto.Dashboard{
		Cards: []presenter.StatCard{
			presenter.CountCard("Classes", int64(len(data.Classes)), ""),
			presenter.CountCard("Students", students, "Across my classes"),
			presenter.CountCard("Subjects", data.Subjects, "Qualified to teach"),
			presenter.CountCard("Upcoming Exams", int64(len(data.UpcomingExams)), ""),
			rating,
		},
		Data:    data,
		Partial: partial,
	}, nil
}

/* ===================== student ===================== */

func (s *DashboardService) student(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error) {
	var me userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&me, "id = ? AND role = ?", v.ID, constants.RoleStudent).Error; err != nil {
		return nil, helper.NotFound("Student not found")
	}

	data := dto.StudentData{UpcomingExams: []dto.UpcomingExam{}, FeesDue: []dto.FeeDue{}}
	var classIDs []uuid.UUID
	if me.ClassID != nil {
		classIDs = []uuid.UUID{*me.ClassID}
	} else {
		classIDs = []uuid.UUID{}
	}
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			data.Performance = studentService.BuildPerformance(ctx, s.DB, studentDTO.FromModel(&me))
			return nil
		},
		func(ctx context.Context) (err error) { data.UpcomingExams, err = s.upcomingExams(ctx, classIDs); return },
		func(ctx context.Context) (err error) { data.FeesDue, err = s.feesDue(ctx, me); return },
	)
	partial := settle(constants.RoleStudent, errs)

	p := data.Performance
	return &dto.Dashboard{
		Cards: []presenter.StatCard{
			{Title: "GPA", Value: fmt.Sprintf("%.2f", p.GPA), Subtitle: "Overall grade " + p.OverallGrade},
			presenter.MetricCard("Attendance", p.Attendance, fmt.Sprintf("%d sessions", p.Sessions)),
			{Title: "Behavior", Value: fmt.Sprintf("%d", p.BehaviorScore), Subtitle: "Out of 100"},
			presenter.MoneyCard("Fees Due", totalOutstanding(data.FeesDue), fmt.Sprintf("%d open", len(data.FeesDue))),
		},
		Data:    data,
		Partial: partial,
	}, nil
}

/* ===================== parent ===================== */

func (s *DashboardService) parent(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error) {
	var children []userModel.UserModel
	if err := s.DB.WithContext(ctx).
		Where("parent_id = ? AND role = ?", v.ID, constants.RoleStudent).
		Order("full_name ASC").Find(&children).Error; err != nil {
		return nil, err
	}

	data := dto.ParentData{Children: make([]dto.ChildSummary, len(children))}
	fns := make([]func(context.Context) error, 0, len(children))
	for i := range children {
		i := i
		fns = append(fns, func(ctx context.Context) error {
			child := children[i]
			p := studentService.BuildPerformance(ctx, s.DB, studentDTO.FromModel(&child))
			fees, err := s.feesDue(ctx, child)
			data.Children[i] = dto.ChildSummary{
				StudentID:     child.ID,
				Name:          child.FullName,
				GPA:           p.GPA,
				OverallGrade:  p.OverallGrade,
				Attendance:    p.Attendance,
				BehaviorScore: p.BehaviorScore,
				Status:        p.Status,
				StatusStyle:   p.StatusStyle,
				FeesDue:       fees,
			}
			return err
		})
	}
	partial := settle(constants.RoleParent, helper.FanOutSettled(ctx, fns...))

	due := decimal.Zero
	for _, c := range data.Children {
		due = due.Add(totalOutstanding(c.FeesDue))
	}
	return &dto.Dashboard{
		Cards: []presenter.StatCard{
			presenter.CountCard("Children", int64(len(children)), ""),
			presenter.MoneyCard("Fees Due", due, "All children"),
		},
		Data:    data,
		Partial: partial,
	}, nil
}
