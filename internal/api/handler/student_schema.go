package handler

type enrollStudentRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
}

type bulkEnrollRequest struct {
	Students []enrollStudentRequest `json:"students" validate:"required,min=1,dive"`
}

type credentialResponse struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

// bulkFailureResponse reports a partially applied bulk enrollment: Created
// is the number of accounts provisioned before the abort.
type bulkFailureResponse struct {
	Error   string `json:"error"`
	Created int    `json:"created"`
}

type studentResponse struct {
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}
