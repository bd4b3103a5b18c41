// Package transport declares the request and response bodies of the HTTP API.
package transport

import "github.com/Skotchmaster/hospital_management/internal/models"

// Envelope wraps every response, successful or not.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func OK(code int, data any, message string) Envelope {
	return Envelope{StatusCode: code, Data: data, Message: message, Success: code < 400}
}

func Fail(code int, message string) Envelope {
	return Envelope{StatusCode: code, Message: message}
}

// RegisterRequest arrives as multipart form data next to the "picture" file.
// Role-specific fields are read only for the matching role.
type RegisterRequest struct {
	Name     string `form:"name"     json:"name"`
	Email    string `form:"email"    json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role"     json:"role"`

	Salary            float64  `form:"salary"            json:"salary"            validate:"gte=0"`
	Qualification     string   `form:"qualification"     json:"qualification"`
	ExperienceInYears int      `form:"experienceInYears" json:"experienceInYears" validate:"gte=0"`
	WorksInHospitals  []string `form:"worksInHospitals"  json:"worksInHospitals"`

	DiagnosedWith string `form:"diagnosedWith" json:"diagnosedWith"`
	Address       string `form:"address"       json:"address"`
	Age           int    `form:"age"           json:"age"        validate:"gte=0"`
	BloodGroup    string `form:"bloodGroup"    json:"bloodGroup"`
	Gender        string `form:"gender"        json:"gender"     validate:"omitempty,oneof=M F O"`
	AdmittedIn    string `form:"admittedIn"    json:"admittedIn"`

	// MedicalHistory is a JSON array of MedicalHistoryRequest inside the form.
	MedicalHistory string `form:"medicalHistory" json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

// AccountResponse is an identity merged with its role profile.
type AccountResponse struct {
	User    *models.User    `json:"user"`
	Doctor  *models.Doctor  `json:"doctor,omitempty"`
	Patient *models.Patient `json:"patient,omitempty"`
}

type LoginResponse struct {
	AccountResponse
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateDoctorRequest struct {
	Salary            *float64 `json:"salary"            validate:"omitempty,gte=0"`
	Qualification     *string  `json:"qualification"`
	ExperienceInYears *int     `json:"experienceInYears" validate:"omitempty,gte=0"`
}

type HospitalIDsRequest struct {
	HospitalIDs []string `json:"hospitalIds" validate:"required,min=1"`
}

type UpdatePatientRequest struct {
	DiagnosedWith *string `json:"diagnosedWith"`
	Address       *string `json:"address"`
	Age           *int    `json:"age"        validate:"omitempty,gte=0"`
	BloodGroup    *string `json:"bloodGroup"`
	Gender        *string `json:"gender"     validate:"omitempty,oneof=M F O"`
}

type MedicalHistoryRequest struct {
	Condition   string   `json:"condition" validate:"required"`
	TreatedBy   string   `json:"treatedBy"`
	Notes       string   `json:"notes"`
	Medications []string `json:"medications"`
}

type CreateDepartmentRequest struct {
	Name        string  `json:"name"     validate:"required"`
	Description string  `json:"description"`
	Hospital    string  `json:"hospital" validate:"required"`
	Head        *string `json:"head"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Head        *string `json:"head"`
}

type DoctorIDsRequest struct {
	DoctorIDs []string `json:"doctorIds" validate:"required,min=1"`
}

type PatientIDsRequest struct {
	PatientIDs []string `json:"patientIds" validate:"required,min=1"`
}

type CreateHospitalRequest struct {
	Name          string   `json:"name"    validate:"required"`
	Address       string   `json:"address" validate:"required"`
	City          string   `json:"city"    validate:"required"`
	Pincode       string   `json:"pincode" validate:"required"`
	SpecializedIn []string `json:"specializedIn"`
}

type UpdateHospitalRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`
}

type DepartmentIDsRequest struct {
	DepartmentIDs []string `json:"departmentIds" validate:"required,min=1"`
}

type CreateRecordRequest struct {
	Patient     string   `json:"patient" validate:"required"`
	Hospital    *string  `json:"hospital"`
	Disease     string   `json:"disease" validate:"required"`
	Medications []string `json:"medications"`
}

type UpdateRecordRequest struct {
	Disease     *string  `json:"disease"`
	Medications []string `json:"medications"`
}
