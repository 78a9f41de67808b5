package board

import (
	"html/template"
	"io"
	"net/url"

	"github.com/hackgods/reception-board/internal/appointment"
)

const EmptyStateText = "No appointments found"

// Page is everything the reception board view needs for one render.
type Page struct {
	Title string
	Board appointment.Board
}

var funcs = template.FuncMap{
	"statuses":   appointment.AllStatuses,
	"emptyText":  func() string { return EmptyStateText },
	"badge":      badgeClass,
	"pathEscape": url.PathEscape,
}

var boardTmpl = template.Must(template.New("board").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main class="reception-board">
<h1>{{.Title}}</h1>
<section class="stats">
  <div class="stat" data-stat="total"><span>Total</span><strong>{{.Board.Stats.Total}}</strong></div>
  <div class="stat" data-stat="confirmed"><span>Confirmed</span><strong>{{.Board.Stats.Confirmed}}</strong></div>
  <div class="stat" data-stat="waiting"><span>Waiting</span><strong>{{.Board.Stats.Waiting}}</strong></div>
  <div class="stat" data-stat="in_progress"><span>In Progress</span><strong>{{.Board.Stats.InProgress}}</strong></div>
</section>
<form class="filters" method="get" action="/board">
  <input type="date" name="date" value="{{.Board.Filter.Date}}">
  <input type="search" name="q" placeholder="Search patients" value="{{.Board.Filter.Search}}">
  <button type="submit">Apply</button>
</form>
{{if .Board.Empty}}
<div class="empty-state">
  <p>{{emptyText}}</p>
</div>
{{else}}
<table class="appointments">
  <thead>
    <tr><th>Token</th><th>Time</th><th>Patient</th><th>Phone</th><th>Complaint</th><th>Treatment</th><th>Status</th></tr>
  </thead>
  <tbody>
  {{range .Board.Appointments}}
    <tr data-id="{{.ID}}">
      <td>#{{.TokenNumber}}</td>
      <td>{{.AppointmentTime}}</td>
      <td>{{.Patient.FullName}}</td>
      <td>{{.Patient.Phone}}</td>
      <td>{{.ChiefComplaint}}</td>
      <td>{{.TreatmentType}}</td>
      <td>
        <span class="{{badge .Status}}">{{.Status.Label}}</span>
        <form method="post" action="/board/appointments/{{pathEscape .ID}}/status">
          <select name="status">
          {{$current := .Status}}
          {{range statuses}}<option value="{{.}}"{{if eq . $current}} selected{{end}}>{{.Label}}</option>{{end}}
          </select>
          <button type="submit">Update</button>
        </form>
      </td>
    </tr>
  {{end}}
  </tbody>
</table>
{{end}}
</main>
</body>
</html>
`))

func badgeClass(s appointment.Status) string {
	return "badge badge-" + string(s)
}

func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Reception Desk"
	}
	return boardTmpl.Execute(w, p)
}
