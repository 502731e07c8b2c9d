package renderer

// EnquiryValues are the fields of the public enquiry form.
type EnquiryValues struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	City        string `json:"city" form:"city"`
	Destination string `json:"destination" form:"destination"`
}

// FormState is the transient state of the enquiry form between requests.
type FormState struct {
	Values    EnquiryValues
	Error     string
	Submitted bool
}

// Fail keeps the entered values so the visitor can retry.
func (f *FormState) Fail(message string, values EnquiryValues) {
	f.Values = values
	f.Error = message
	f.Submitted = false
}

// Succeed clears the form and shows the confirmation.
func (f *FormState) Succeed() {
	f.Values = EnquiryValues{}
	f.Error = ""
	f.Submitted = true
}
