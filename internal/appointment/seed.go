package appointment

// Seed returns a fresh copy of the fixed reception board data.
func Seed() []Appointment {
	return []Appointment{
		{
			ID:              "1",
			AppointmentTime: "09:00 AM",
			TokenNumber:     1,
			Status:          StatusConfirmed,
			Patient: Patient{
				FirstName: "John",
				LastName:  "Doe",
				Phone:     "+1 234-567-8901",
			},
			ChiefComplaint: "Tooth pain",
			TreatmentType:  "Root canal",
		},
		{
			ID:              "2",
			AppointmentTime: "10:30 AM",
			TokenNumber:     2,
			Status:          StatusScheduled,
			Patient: Patient{
				FirstName: "Jane",
				LastName:  "Smith",
				Phone:     "+1 234-567-8902",
			},
			ChiefComplaint: "Regular checkup",
			TreatmentType:  "Cleaning",
		},
		{
			ID:              "3",
			AppointmentTime: "02:00 PM",
			TokenNumber:     3,
			Status:          StatusInProgress,
			Patient: Patient{
				FirstName: "Mike",
				LastName:  "Johnson",
				Phone:     "+1 234-567-8903",
			},
			ChiefComplaint: "Broken tooth",
			TreatmentType:  "Crown",
		},
	}
}
