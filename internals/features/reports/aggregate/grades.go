package aggregate

// NoGrade is shown when a student has no results.
const NoGrade = "N/A"

var letterThresholds = []struct {
	min    float64
	letter string
	point  float64
}{
	{97, "A+", 4.0},
	{93, "A", 4.0},
	{90, "A-", 3.7},
	{87, "B+", 3.3},
	{83, "B", 3.0},
	{80, "B-", 2.7},
	{77, "C+", 2.3},
	{73, "C", 2.0},
	{70, "C-", 1.7},
	{67, "D+", 1.3},
	{65, "D", 1.0},
}

// LetterGrade maps a percentage to a letter; lower bounds are inclusive.
func LetterGrade(pct float64) string {
	for _, t := range letterThresholds {
		if pct >= t.min {
			return t.letter
		}
	}
	return "F"
}

// GradePoint on a 4.0 scale; unknown letters are 0.
func GradePoint(letter string) float64 {
	for _, t := range letterThresholds {
		if t.letter == letter {
			return t.point
		}
	}
	return 0
}

// GPA is the mean grade point over result percentages, 0 when empty.
func GPA(percentages []float64) float64 {
	var sum float64
	for _, p := range percentages {
		sum += GradePoint(LetterGrade(p))
	}
	return Round(SafeAverage(sum, len(percentages)), 2)
}

// LetterGradeOrNA returns NoGrade when there are no results.
func LetterGradeOrNA(percentages []float64) string {
	if len(percentages) == 0 {
		return NoGrade
	}
	return LetterGrade(Mean(percentages))
}

// Passed is inclusive at the pass mark.
func Passed(marks, passMarks float64) bool {
	return marks >= passMarks
}

// Distribution bins, half-open on the lower bound.
const (
	BinAPlus = "A+"
	BinA     = "A"
	BinB     = "B"
	BinC     = "C"
	BinF     = "F"
)

var DistributionBins = []string{BinAPlus, BinA, BinB, BinC, BinF}

// GradeDistribution: A+ [90,inf), A [80,90), B [60,80), C [40,60), F below 40.
func GradeDistribution(percentages []float64) map[string]int {
	out := map[string]int{BinAPlus: 0, BinA: 0, BinB: 0, BinC: 0, BinF: 0}
	for _, p := range percentages {
		switch {
		case p >= 90:
			out[BinAPlus]++
		case p >= 80:
			out[BinA]++
		case p >= 60:
			out[BinB]++
		case p >= 40:
			out[BinC]++
		default:
			out[BinF]++
		}
	}
	return out
}
