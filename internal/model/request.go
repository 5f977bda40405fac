package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest carries every display field; which ones are required depends
// on the role being registered.
type SignupRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	Name             string `json:"name" validate:"omitempty,max=120"`
	OrganizationName string `json:"organizationName" validate:"omitempty,max=200"`
	CompanyName      string `json:"companyName" validate:"omitempty,max=200"`
	ContactPerson    string `json:"contactPerson" validate:"omitempty,max=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type AuditActor struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	IP     string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action  string
	ActorID string
	Status  string
	Page    int
	Limit   int
}

type AuditList struct {
	Entries []AuditEntry `json:"entries"`
}
