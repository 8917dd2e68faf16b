package form

// Form identifiers. The appointment form lives inside the appointment modal;
// the contact form is embedded in the page.
const (
	FormAppointment = "appointment"
	FormContact     = "contact"
)

// Field names, matching the backend payload keys.
const (
	FieldFullName = "full_name"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldDate     = "date"
	FieldTime     = "time"
	FieldSubject  = "subject"
	FieldMessage  = "message"
)

// AppointmentRequest is a booking request as sent to the backend. Time is
// expected in HH:MM:SS and date in YYYY-MM-DD.
type AppointmentRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// ContactRequest is a general inquiry as sent to the backend.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Schema declares the field set of one form. Every declared field is
// required at submit time.
type Schema struct {
	ID     string
	Fields []string
}

var (
	AppointmentSchema = Schema{
		ID:     FormAppointment,
		Fields: []string{FieldFullName, FieldEmail, FieldPhone, FieldDate, FieldTime},
	}

	ContactSchema = Schema{
		ID:     FormContact,
		Fields: []string{FieldName, FieldEmail, FieldSubject, FieldMessage},
	}
)

// buildAppointment maps a field snapshot into the concrete request record.
// The time value is canonicalized here, on the value actually sent, never on
// the stored field.
func buildAppointment(fields map[string]string) AppointmentRequest {
	return AppointmentRequest{
		FullName: fields[FieldFullName],
		Email:    fields[FieldEmail],
		Phone:    fields[FieldPhone],
		Date:     fields[FieldDate],
		Time:     NormalizeTime(fields[FieldTime]),
	}
}

func buildContact(fields map[string]string) ContactRequest {
	return ContactRequest{
		Name:    fields[FieldName],
		Email:   fields[FieldEmail],
		Subject: fields[FieldSubject],
		Message: fields[FieldMessage],
	}
}
