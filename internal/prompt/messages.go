package prompt

// Assistant transcript texts
const (
	Greeting = "Hello! I'm Dr. AI, your virtual medical assistant. I can help with health questions and provide medical recommendations. " +
		"You can also fetch your health data for personalized advice. Please describe your symptoms or health concerns."
	ClearedGreeting = "Hello! I'm Dr. AI, your virtual medical assistant. I can help with health questions and provide medical recommendations. " +
		"Please describe your symptoms or health concerns."

	SendFailure = "I apologize, but I'm having trouble connecting right now. Please try again in a moment. " +
		"If this is a medical emergency, please contact emergency services immediately."
	SendFailureAlert = "Failed to get response. Please check your internet connection and try again."

	AnalysisFailure = "I encountered an issue while analyzing your health data. Please try asking me specific questions about your health concerns."
	AnalysisPrefix  = "🩺 **Comprehensive Health Analysis:**\n\n"

	NoDataFound = "ℹ️ No recent health data found. Please ensure your health records are being saved correctly."

	FetchFailure = "❌ I couldn't retrieve your health data at the moment. " +
		"Please try again later or contact support if the issue persists."
	FetchFailureAlert = "Failed to fetch user health data. Please check your internet connection and try again."
)

// FetchSuccess wraps a formatted status into the retrieval confirmation
func FetchSuccess(status string) string {
	return "✅ Health data retrieved successfully!\n\n📊 Current Health Status:\n" + status
}

// AnalysisResult prefixes the model's analysis
func AnalysisResult(text string) string {
	return AnalysisPrefix + text
}
