package presenter

import "strings"

// Style is how a status renders in every view.
type Style struct {
	Color string `json:"color"`
	Badge string `json:"badge"`
	Label string `json:"label"`
}

const (
	KindAdmission  = "admission"
	KindDocument   = "document"
	KindFeePayment = "fee_payment"
	KindExpense    = "expense"
	KindPayroll    = "payroll"
	KindAttendance = "attendance"
	KindExamResult = "exam_result"
	KindStudent    = "student_status"
	KindTrend      = "trend"
)

var (
	green  = Style{Color: "green", Badge: "badge-success"}
	blue   = Style{Color: "blue", Badge: "badge-info"}
	yellow = Style{Color: "yellow", Badge: "badge-warning"}
	orange = Style{Color: "orange", Badge: "badge-warning"}
	purple = Style{Color: "purple", Badge: "badge-primary"}
	red    = Style{Color: "red", Badge: "badge-danger"}
	gray   = Style{Color: "gray", Badge: "badge-secondary"}
)

// styles is the single status→style table shared by the API and the HTML pages.
var styles = map[string]map[string]Style{
	KindAdmission: {
		"PENDING":             yellow,
		"UNDER_REVIEW":        blue,
		"INTERVIEW_SCHEDULED": purple,
		"ACCEPTED":            green,
		"REJECTED":            red,
		"WAITLISTED":          orange,
	},
	KindDocument: {
		"PENDING":  yellow,
		"APPROVED": green,
		"REJECTED": red,
	},
	KindFeePayment: {
		"PENDING":   yellow,
		"PAID":      green,
		"PARTIAL":   blue,
		"OVERDUE":   red,
		"CANCELLED": gray,
	},
	KindExpense: {
		"PENDING":  yellow,
		"APPROVED": blue,
		"PAID":     green,
		"REJECTED": red,
	},
	KindPayroll: {
		"PENDING":   yellow,
		"PROCESSED": blue,
		"PAID":      green,
	},
	KindAttendance: {
		"PRESENT": green,
		"LATE":    yellow,
		"ABSENT":  red,
	},
	KindExamResult: {
		"PASS": green,
		"FAIL": red,
	},
	KindStudent: {
		"excellent":         green,
		"good":              blue,
		"satisfactory":      yellow,
		"needs_improvement": orange,
		"at_risk":           red,
		"insufficient_data": gray,
	},
	KindTrend: {
		"improving":         green,
		"stable":            blue,
		"declining":         red,
		"insufficient_data": gray,
	},
}

// StatusStyle looks up kind/status; unknown pairs render gray with a humanised label.
func StatusStyle(kind, status string) Style {
	s, ok := styles[kind][status]
	if !ok {
		s = gray
	}
	s.Label = humanize(status)
	return s
}

// Kinds lists every registered enum kind.
func Kinds() []string {
	out := make([]string, 0, len(styles))
	for k := range styles {
		out = append(out, k)
	}
	return out
}

func humanize(status string) string {
	if status == "" {
		return "Unknown"
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(status), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
