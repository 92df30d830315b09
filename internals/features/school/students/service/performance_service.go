package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	"schoolhub_backend/internals/features/school/students/dto"
	helper "schoolhub_backend/internals/helpers"
)

// Performance is the derived academic picture of one student.
type Performance struct {
	Student        dto.StudentResponse  `json:"student"`
	GPA            float64              `json:"gpa"`
	OverallGrade   string               `json:"overall_grade"`
	AveragePercent float64              `json:"average_percent"`
	PassedExams    int                  `json:"passed_exams"`
	FailedExams    int                  `json:"failed_exams"`
	Attendance     aggregate.Metric     `json:"attendance"`
	AttendanceText string               `json:"attendance_text"`
	Present        int                  `json:"present"`
	Late           int                  `json:"late"`
	Absent         int                  `json:"absent"`
	Sessions       int                  `json:"sessions"`
	BehaviorScore  int                  `json:"behavior_score"`
	PositiveNotes  int                  `json:"positive_notes"`
	Infractions    int                  `json:"infractions"`
	Status         string               `json:"status"`
	StatusStyle    presenter.Style      `json:"status_style"`
	Subjects       []dto.SubjectAverage `json:"subjects"`
	Exams          []dto.ExamScore      `json:"exams"`
}

type examRow struct {
	ExamID         uuid.UUID
	ExamTitle      string
	ExamDate       time.Time
	ExamTotalMarks float64
	ExamPassMarks  float64
	SubjectID      uuid.UUID
	SubjectName    string
	Marks          float64
}

type statusCount struct {
	Status string
	N      int
}

// ExamScores loads a student's results joined with their exams, oldest first.
func ExamScores(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]dto.ExamScore, error) {
	var rows []examRow
	err := db.WithContext(ctx).
		Table("exam_results AS r").
		Select(`e.exam_id, e.exam_title, e.exam_date, e.exam_total_marks, e.exam_pass_marks,
			e.exam_subject_id AS subject_id, COALESCE(s.subject_name, '') AS subject_name,
			r.exam_result_marks_obtained AS marks`).
		Joins("JOIN exams e ON e.exam_id = r.exam_result_exam_id AND e.exam_deleted_at IS NULL").
		Joins("LEFT JOIN subjects s ON s.subject_id = e.exam_subject_id").
		Where("r.exam_result_student_id = ?", studentID).
		Order("e.exam_date ASC").
		Scan(&rows).Error
	if err != nil {
		return []dto.ExamScore{}, err
	}
	out := make([]dto.ExamScore, 0, len(rows))
	for _, r := range rows {
		pct := aggregate.Round(aggregate.Percentage(r.Marks, r.ExamTotalMarks), 1)
		out = append(out, dto.ExamScore{
			ExamID:      r.ExamID,
			ExamTitle:   r.ExamTitle,
			SubjectID:   r.SubjectID,
			SubjectName: r.SubjectName,
			ExamDate:    r.ExamDate,
			Marks:       r.Marks,
			TotalMarks:  r.ExamTotalMarks,
			PassMarks:   r.ExamPassMarks,
			Percentage:  pct,
			Grade:       aggregate.LetterGrade(pct),
			Passed:      aggregate.Passed(r.Marks, r.ExamPassMarks),
		})
	}
	return out, nil
}

// AttendanceCounts groups a student's attendance rows by status.
func AttendanceCounts(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (map[string]int, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&attendanceModel.AttendanceRecordModel{}).
		Select("attendance_status AS status, COUNT(*) AS n").
		Where("attendance_student_id = ?", studentID).
		Group("attendance_status").
		Scan(&rows).Error
	out := map[string]int{}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, err
}

// BehaviorCounts returns (positive, negative) record counts.
func BehaviorCounts(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (int, int, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&attendanceModel.BehaviorRecordModel{}).
		Select("behavior_type AS status, COUNT(*) AS n").
		Where("behavior_student_id = ?", studentID).
		Group("behavior_type").
		Scan(&rows).Error
	var pos, neg int
	for _, r := range rows {
		switch {
		case r.Status == constants.BehaviorPositive:
			pos += r.N
		case constants.IsNegativeBehavior(r.Status):
			neg += r.N
		}
	}
	return pos, neg, err
}

// Attended returns the PRESENT count and the total across every status. LATE is not present.
func Attended(counts map[string]int) (attended, total int) {
	for _, n := range counts {
		total += n
	}
	return counts[constants.AttendancePresent], total
}

// SubjectAverages averages result percentages per subject, ordered by subject name.
func SubjectAverages(exams []dto.ExamScore) []dto.SubjectAverage {
	type acc struct {
		name string
		sum  float64
		n    int
	}
	by := map[uuid.UUID]*acc{}
	for _, e := range exams {
		a, ok := by[e.SubjectID]
		if !ok {
			a = &acc{name: e.SubjectName}
			by[e.SubjectID] = a
		}
		a.sum += e.Percentage
		a.n++
	}
	out := make([]dto.SubjectAverage, 0, len(by))
	for id, a := range by {
		avg := aggregate.Round(aggregate.SafeAverage(a.sum, a.n), 1)
		out = append(out, dto.SubjectAverage{
			SubjectID:   id,
			SubjectName: a.name,
			Exams:       a.n,
			Average:     avg,
			Grade:       aggregate.LetterGrade(avg),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectName < out[j].SubjectName })
	return out
}

// Performance fans out the three independent reads and aggregates them.
// A failing read degrades to its empty default and is logged.
func (s *StudentService) Performance(ctx context.Context, id uuid.UUID) (*Performance, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildPerformance(ctx, s.DB, dto.FromModel(student)), nil
}

func BuildPerformance(ctx context.Context, db *gorm.DB, student dto.StudentResponse) *Performance {
	log := configs.Logger("students")
	var (
		exams    []dto.ExamScore
		att      map[string]int
		pos, neg int
	)
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) (err error) { exams, err = ExamScores(ctx, db, student.ID); return },
		func(ctx context.Context) (err error) { att, err = AttendanceCounts(ctx, db, student.ID); return },
		func(ctx context.Context) (err error) { pos, neg, err = BehaviorCounts(ctx, db, student.ID); return },
	)
	for _, err := range errs {
		if err != nil {
			log.Error().Err(err).Str("student_id", student.ID.String()).Msg("[STUDENT][PERFORMANCE] read failed")
		}
	}
	if exams == nil {
		exams = []dto.ExamScore{}
	}

	pcts := make([]float64, 0, len(exams))
	p := &Performance{Student: student, Exams: exams}
	for _, e := range exams {
		pcts = append(pcts, e.Percentage)
		if e.Passed {
			p.PassedExams++
		} else {
			p.FailedExams++
		}
	}
	p.GPA = aggregate.GPA(pcts)
	p.AveragePercent = aggregate.Round(aggregate.Mean(pcts), 1)
	p.OverallGrade = aggregate.LetterGradeOrNA(pcts)

	attended, total := Attended(att)
	p.Present = att[constants.AttendancePresent]
	p.Late = att[constants.AttendanceLate]
	p.Absent = att[constants.AttendanceAbsent]
	p.Sessions = total
	p.Attendance = aggregate.AttendanceRate(attended, total)
	p.AttendanceText = presenter.MetricValue(p.Attendance)

	p.PositiveNotes, p.Infractions = pos, neg
	p.BehaviorScore = aggregate.BehaviorScore(pos, neg)
	p.Status = aggregate.ClassifyStatus(p.GPA, p.Attendance, p.BehaviorScore)
	p.StatusStyle = presenter.StatusStyle(presenter.KindStudent, p.Status)
	p.Subjects = SubjectAverages(exams)
	return p
}
