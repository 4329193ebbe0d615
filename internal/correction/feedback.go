package correction

// Feedback returns the encouragement line for a fluency score
func Feedback(score int) string {
	switch {
	case score >= 90:
		return "Excellent! Your pronunciation and grammar are very natural."
	case score >= 80:
		return "Great job! You're speaking very well with minor improvements needed."
	case score >= 70:
		return "Good effort! Keep practicing to improve your fluency."
	case score >= 60:
		return "Not bad! Focus on the corrections to improve your speaking."
	default:
		return "Keep practicing! Review the corrections and try again."
	}
}
