package dto

// UserCredentialsRequest is the body of user and admin register/login calls.
type UserCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CompanyCredentialsRequest is the body of company register/login calls.
type CompanyCredentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// CompanyDecisionRequest selects the company to approve or reject.
type CompanyDecisionRequest struct {
	CompanyID ID `json:"company_id"`
}

// MessageResponse is the plain success shape.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserLoginResponse is returned by a successful user login.
type UserLoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// CompanyLoginResponse is returned by a successful company login.
type CompanyLoginResponse struct {
	Message   string `json:"message"`
	CompanyID int64  `json:"company_id"`
}
