package constants

// Admission application status
const (
	AdmissionPending            = "PENDING"
	AdmissionUnderReview        = "UNDER_REVIEW"
	AdmissionInterviewScheduled = "INTERVIEW_SCHEDULED"
	AdmissionAccepted           = "ACCEPTED"
	AdmissionRejected           = "REJECTED"
	AdmissionWaitlisted         = "WAITLISTED"
)

var AdmissionStatuses = []string{
	AdmissionPending, AdmissionUnderReview, AdmissionInterviewScheduled,
	AdmissionAccepted, AdmissionRejected, AdmissionWaitlisted,
}

// Application document status
const (
	DocumentPending  = "PENDING"
	DocumentApproved = "APPROVED"
	DocumentRejected = "REJECTED"
)

// Exam type
const (
	ExamQuiz       = "QUIZ"
	ExamMidterm    = "MIDTERM"
	ExamFinal      = "FINAL"
	ExamAssignment = "ASSIGNMENT"
	ExamProject    = "PROJECT"
)

// Attendance status
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
)

var AttendanceStatuses = []string{AttendancePresent, AttendanceLate, AttendanceAbsent}

// Behavior record type
const (
	BehaviorPositive           = "POSITIVE_RECOGNITION"
	BehaviorMinorInfraction    = "MINOR_INFRACTION"
	BehaviorMajorInfraction    = "MAJOR_INFRACTION"
	BehaviorAcademicDishonesty = "ACADEMIC_DISHONESTY"
	BehaviorNote               = "NOTE"
)

func IsNegativeBehavior(t string) bool {
	switch t {
	case BehaviorMinorInfraction, BehaviorMajorInfraction, BehaviorAcademicDishonesty:
		return true
	}
	return false
}

// Fee type
const (
	FeeTuition   = "TUITION"
	FeeTransport = "TRANSPORT"
	FeeLibrary   = "LIBRARY"
	FeeLab       = "LAB"
	FeeExam      = "EXAM"
	FeeOther     = "OTHER"
)

// Fee payment status
const (
	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentPartial   = "PARTIAL"
	PaymentOverdue   = "OVERDUE"
	PaymentCancelled = "CANCELLED"
)

// Expense category / status
const (
	ExpenseSalaries    = "SALARIES"
	ExpenseUtilities   = "UTILITIES"
	ExpenseMaintenance = "MAINTENANCE"
	ExpenseSupplies    = "SUPPLIES"
	ExpenseTransport   = "TRANSPORT"
	ExpenseEvents      = "EVENTS"
	ExpenseOther       = "OTHER"

	ExpensePending  = "PENDING"
	ExpenseApproved = "APPROVED"
	ExpensePaid     = "PAID"
	ExpenseRejected = "REJECTED"
)

var ExpenseCategories = []string{
	ExpenseSalaries, ExpenseUtilities, ExpenseMaintenance, ExpenseSupplies,
	ExpenseTransport, ExpenseEvents, ExpenseOther,
}

// Payroll status
const (
	PayrollPending   = "PENDING"
	PayrollProcessed = "PROCESSED"
	PayrollPaid      = "PAID"
)
