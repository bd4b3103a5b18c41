package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

func (r Role) Valid() bool { return r == RoleDoctor || r == RolePatient }

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale || g == GenderOther }

// StringList is stored as a JSON column by gorm and as an array by mongo.
type StringList = datatypes.JSONSlice[string]

type Picture struct {
	URL      string `gorm:"not null" bson:"url"       json:"url"`
	PublicID string `gorm:"not null" bson:"public_id" json:"public_id"`
}

type User struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"        bson:"_id"                          json:"id"`
	Name             string    `gorm:"not null"                           bson:"name"                         json:"name"`
	Email            string    `gorm:"uniqueIndex;not null"               bson:"email"                        json:"email"`
	PasswordHash     string    `gorm:"not null"                           bson:"password_hash"                json:"-"`
	Role             Role      `gorm:"type:varchar(16);not null"          bson:"role"                         json:"role"`
	Picture          Picture   `gorm:"embedded;embeddedPrefix:picture_"   bson:"picture"                      json:"picture"`
	RefreshTokenHash *string   `gorm:"index"                              bson:"refresh_token_hash,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"created_at"                         json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at"                         json:"updatedAt"`
}

// Public returns a copy without the password hash and refresh token digest.
func (u User) Public() User {
	u.PasswordHash = ""
	u.RefreshTokenHash = nil
	return u
}

type Doctor struct {
	ID                string     `gorm:"primaryKey;type:varchar(36)"        bson:"_id"                json:"id"`
	UserID            string     `gorm:"uniqueIndex;type:varchar(36);not null" bson:"user_id"        json:"userId"`
	Salary            float64    `bson:"salary"                             json:"salary"`
	Qualification     string     `bson:"qualification"                      json:"qualification"`
	ExperienceInYears int        `bson:"experience_in_years"                json:"experienceInYears"`
	WorksInHospitals  StringList `bson:"works_in_hospitals"                 json:"worksInHospitals"`
	CreatedAt         time.Time  `bson:"created_at"                         json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updated_at"                         json:"updatedAt"`
}

type MedicalHistoryEntry struct {
	ID          string   `bson:"id"                   json:"id"`
	Condition   string   `bson:"condition"            json:"condition"`
	TreatedBy   string   `bson:"treated_by,omitempty" json:"treatedBy,omitempty"`
	Notes       string   `bson:"notes,omitempty"      json:"notes,omitempty"`
	Medications []string `bson:"medications"          json:"medications"`
}

type Patient struct {
	ID             string                                   `gorm:"primaryKey;type:varchar(36)"           bson:"_id"             json:"id"`
	UserID         string                                   `gorm:"uniqueIndex;type:varchar(36);not null" bson:"user_id"         json:"userId"`
	DiagnosedWith  string                                   `bson:"diagnosed_with"                        json:"diagnosedWith"`
	Address        string                                   `bson:"address"                               json:"address"`
	Age            int                                      `bson:"age"                                   json:"age"`
	BloodGroup     string                                   `bson:"blood_group"                           json:"bloodGroup"`
	Gender         Gender                                   `gorm:"type:varchar(1)"                       bson:"gender"          json:"gender"`
	AdmittedIn     *string                                  `gorm:"type:varchar(36)"                      bson:"admitted_in"     json:"admittedIn"`
	MedicalHistory datatypes.JSONSlice[MedicalHistoryEntry] `bson:"medical_history"                       json:"medicalHistory"`
	CreatedAt      time.Time                                `bson:"created_at"                            json:"createdAt"`
	UpdatedAt      time.Time                                `bson:"updated_at"                            json:"updatedAt"`
}

type Hospital struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" bson:"_id"            json:"id"`
	Name          string     `gorm:"not null"                    bson:"name"           json:"name"`
	Address       string     `gorm:"not null"                    bson:"address"        json:"address"`
	City          string     `gorm:"not null"                    bson:"city"           json:"city"`
	Pincode       string     `gorm:"not null"                    bson:"pincode"        json:"pincode"`
	SpecializedIn StringList `bson:"specialized_in"              json:"specializedIn"`
	CreatedAt     time.Time  `bson:"created_at"                  json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updated_at"                  json:"updatedAt"`
}

type Department struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"     bson:"_id"         json:"id"`
	Name        string     `gorm:"uniqueIndex;not null"            bson:"name"        json:"name"`
	Description string     `bson:"description"                     json:"description"`
	HospitalID  string     `gorm:"type:varchar(36);not null;index" bson:"hospital"    json:"hospital"`
	HeadID      *string    `gorm:"type:varchar(36)"                bson:"head"        json:"head"`
	Doctors     StringList `bson:"doctors"                         json:"doctors"`
	Patients    StringList `bson:"patients"                        json:"patients"`
	CreatedAt   time.Time  `bson:"created_at"                      json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at"                      json:"updatedAt"`
}

type MedicalRecord struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"     bson:"_id"         json:"id"`
	PatientID   string     `gorm:"type:varchar(36);not null;index" bson:"patient"     json:"patient"`
	DoctorID    string     `gorm:"type:varchar(36);not null;index" bson:"doctor"      json:"doctor"`
	HospitalID  *string    `gorm:"type:varchar(36)"                bson:"hospital"    json:"hospital"`
	Disease     string     `gorm:"not null"                        bson:"disease"     json:"disease"`
	Medications StringList `bson:"medications"                     json:"medications"`
	CreatedAt   time.Time  `bson:"created_at"                      json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at"                      json:"updatedAt"`
}

// Account is an identity together with the role profile created alongside it.
// At most one of Doctor and Patient is set, matching User.Role.
type Account struct {
	User    *User
	Doctor  *Doctor
	Patient *Patient
}
