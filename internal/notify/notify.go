package notify

// Severity of a notice shown to the guest.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notice is a titled message with a severity, rendered by the front-end as
// a blocking modal with a single acknowledgement action. Pure presentation
// data; it carries no state beyond its presence on a response.
type Notice struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

func Success(title, message string) *Notice {
	return &Notice{Severity: SeveritySuccess, Title: title, Message: message}
}

func Error(title, message string) *Notice {
	return &Notice{Severity: SeverityError, Title: title, Message: message}
}

func Info(title, message string) *Notice {
	return &Notice{Severity: SeverityInfo, Title: title, Message: message}
}
