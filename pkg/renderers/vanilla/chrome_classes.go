package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage    ChromeClass = "dynaform-page"
	ClassForm    ChromeClass = "dynaform-form"
	ClassHeader  ChromeClass = "dynaform-header"
	ClassGroup   ChromeClass = "dynaform-group"
	ClassGrid    ChromeClass = "dynaform-grid"
	ClassField   ChromeClass = "dynaform-field"
	ClassInvalid ChromeClass = "dynaform-field--invalid"
	ClassError   ChromeClass = "dynaform-error"
	ClassNotice  ChromeClass = "dynaform-notice"
	ClassActions ChromeClass = "dynaform-actions"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":    string(ClassPage),
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"group":   string(ClassGroup),
		"grid":    string(ClassGrid),
		"field":   string(ClassField),
		"invalid": string(ClassInvalid),
		"error":   string(ClassError),
		"notice":  string(ClassNotice),
		"actions": string(ClassActions),
	}
}
