package models

// Role of an authenticated caller.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Identity is the authenticated caller, passed explicitly into services.
type Identity struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Owns reports whether the caller is the given doctor or patient.
func (i Identity) Owns(a Appointment) bool {
	switch i.Role {
	case RoleDoctor:
		return a.DoctorID == i.UserID
	case RolePatient:
		return a.PatientID == i.UserID
	}
	return false
}
