package engine

// NoticeLevel distinguishes success and failure notices.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the user-facing message emitted by a submit.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// SuccessNotice is emitted after a valid submit.
func SuccessNotice() Notice {
	return Notice{Level: NoticeSuccess, Message: "Form submitted successfully!"}
}

// FailureNotice is emitted when required fields are missing.
func FailureNotice() Notice {
	return Notice{Level: NoticeError, Message: "Please fill in all required fields before submitting."}
}

// IsZero reports whether no notice is set.
func (n Notice) IsZero() bool {
	return n.Message == ""
}
