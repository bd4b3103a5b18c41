package models

// Partial updates. A nil field is left unchanged.

type UserUpdate struct {
	Name         *string
	PasswordHash *string
	Picture      *Picture
}

type DoctorUpdate struct {
	Salary            *float64
	Qualification     *string
	ExperienceInYears *int
}

func (u DoctorUpdate) Empty() bool {
	return u.Salary == nil && u.Qualification == nil && u.ExperienceInYears == nil
}

type PatientUpdate struct {
	DiagnosedWith *string
	Address       *string
	Age           *int
	BloodGroup    *string
	Gender        *Gender
	AdmittedIn    *string
}

func (u PatientUpdate) Empty() bool {
	return u.DiagnosedWith == nil && u.Address == nil && u.Age == nil &&
		u.BloodGroup == nil && u.Gender == nil && u.AdmittedIn == nil
}

type HospitalUpdate struct {
	Name    *string
	Address *string
	City    *string
	Pincode *string
}

func (u HospitalUpdate) Empty() bool {
	return u.Name == nil && u.Address == nil && u.City == nil && u.Pincode == nil
}

type DepartmentUpdate struct {
	Name        *string
	Description *string
	HospitalID  *string
	HeadID      *string
}

func (u DepartmentUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.HospitalID == nil && u.HeadID == nil
}

type RecordUpdate struct {
	Disease     *string
	Medications []string
}

func (u RecordUpdate) Empty() bool {
	return u.Disease == nil && u.Medications == nil
}

// AddToSet appends the ids not already in list, keeping order.
func AddToSet(list []string, ids ...string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list)+len(ids))
	for _, v := range list {
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Pull removes every occurrence of ids from list.
func Pull(list []string, ids ...string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
