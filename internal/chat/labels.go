package chat

const (
	UploadFailedText = "Failed to upload PDFs."
	QueryFailedText  = "Failed to get a response."
)

func SourceLabel(source string) string {
	if source == SourceDocument {
		return "Uploaded PDFs"
	}
	return "General Knowledge"
}

func ReadinessLabel(ready bool) string {
	if ready {
		return "Dalal is ready to assist"
	}
	return "Processing documents..."
}

func InputPlaceholder(ready bool) string {
	if ready {
		return "Ask a question about your documents..."
	}
	return "Upload PDFs to start chatting..."
}
