package appointment

// UpdateStatus returns a copy of list where the record with the given id
// carries the new status. Order and every other field are preserved. An id
// that matches nothing yields an unchanged copy. list itself is not modified.
func UpdateStatus(list []Appointment, id string, status Status) []Appointment {
	out := make([]Appointment, len(list))
	for i, a := range list {
		if a.ID == id {
			a.Status = status
		}
		out[i] = a
	}
	return out
}

type Stats struct {
	Total      int `json:"total"`
	Confirmed  int `json:"confirmed"`
	Waiting    int `json:"waiting"`
	InProgress int `json:"inProgress"`
}

func Summarize(list []Appointment) Stats {
	st := Stats{Total: len(list)}
	for _, a := range list {
		switch a.Status {
		case StatusConfirmed:
			st.Confirmed++
		case StatusScheduled:
			st.Waiting++
		case StatusInProgress:
			st.InProgress++
		}
	}
	return st
}

// Board is one read of the appointment store with its aggregate counts.
type Board struct {
	Appointments []Appointment
	Stats        Stats
	Filter       Filter
}

func (b Board) Empty() bool {
	return len(b.Appointments) == 0
}
