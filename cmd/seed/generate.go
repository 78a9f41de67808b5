package main

import (
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/reception-board/internal/appointment"
)

var complaints = []string{
	"Tooth pain",
	"Regular checkup",
	"Broken tooth",
	"Bleeding gums",
	"Sensitivity to cold",
	"Jaw pain",
	"Loose filling",
	"Wisdom tooth swelling",
}

var treatments = []string{
	"Root canal",
	"Cleaning",
	"Crown",
	"Filling",
	"Extraction",
	"Whitening",
	"Consultation",
	"X-ray",
}

const (
	dayStart    = 8 * time.Hour
	dayEnd      = 17*time.Hour + 30*time.Minute
	slotSpacing = 30 * time.Minute
)

// generate builds count fake appointments with sequential ids and tokens
// starting at firstToken. Times cycle through the clinic day in half hour
// steps.
func generate(firstToken, count int) []appointment.Appointment {
	statuses := appointment.AllStatuses()
	slots := int((dayEnd-dayStart)/slotSpacing) + 1
	midnight := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]appointment.Appointment, 0, count)
	for i := 0; i < count; i++ {
		token := firstToken + i
		at := midnight.Add(dayStart + time.Duration(i%slots)*slotSpacing)

		out = append(out, appointment.Appointment{
			ID:              strconv.Itoa(token),
			AppointmentTime: at.Format("03:04 PM"),
			TokenNumber:     token,
			Status:          statuses[gofakeit.Number(0, len(statuses)-1)],
			Patient: appointment.Patient{
				FirstName: gofakeit.FirstName(),
				LastName:  gofakeit.LastName(),
				Phone:     gofakeit.Phone(),
			},
			ChiefComplaint: gofakeit.RandomString(complaints),
			TreatmentType:  gofakeit.RandomString(treatments),
		})
	}
	return out
}

// nextToken is one past the highest token or numeric id on the board, so
// generated ids never collide with stored ones.
func nextToken(existing []appointment.Appointment) int {
	highest := 0
	for _, a := range existing {
		if a.TokenNumber > highest {
			highest = a.TokenNumber
		}
		if n, err := strconv.Atoi(a.ID); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
