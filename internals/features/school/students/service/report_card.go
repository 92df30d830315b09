package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	pkgErrors "github.com/pkg/errors"

	"schoolhub_backend/internals/configs"
)

// ReportCard renders a one-page PDF of the student's performance.
func (s *StudentService) ReportCard(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	perf, err := s.Performance(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := RenderReportCard(perf, time.Now().UTC())
	if err != nil {
		return nil, "", pkgErrors.Wrap(err, "render report card")
	}
	number := perf.Student.ID.String()[:8]
	if perf.Student.StudentNumber != nil {
		number = *perf.Student.StudentNumber
	}
	return data, fmt.Sprintf("report-card-%s.pdf", number), nil
}

func RenderReportCard(p *Performance, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Report Card", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, configs.GetEnv("APP_NAME", "SchoolHub")+" - Report Card", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	number := "-"
	if p.Student.StudentNumber != nil {
		number = *p.Student.StudentNumber
	}
	rows := [][2]string{
		{"Student", p.Student.FullName},
		{"Student number", number},
		{"GPA", fmt.Sprintf("%.2f", p.GPA)},
		{"Overall grade", p.OverallGrade},
		{"Attendance", p.AttendanceText},
		{"Behavior score", fmt.Sprintf("%d", p.BehaviorScore)},
		{"Status", p.StatusStyle.Label},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, r[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Subject", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Exams", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Average", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Grade", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if len(p.Subjects) == 0 {
		pdf.CellFormat(180, 8, "No exam results recorded", "1", 1, "C", false, 0, "")
	}
	for _, sub := range p.Subjects {
		pdf.CellFormat(90, 8, sub.SubjectName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", sub.Exams), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.1f%%", sub.Average), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, sub.Grade, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format("2006-01-02 15:04 MST"), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
