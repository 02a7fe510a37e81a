// Package content holds the portfolio copy shared by the page template and the
// terminal's filesystem.
package content

import "time"

// BirthDate drives the age shown in the page header.
var BirthDate = time.Date(2008, time.February, 21, 0, 0, 0, 0, time.Local)

var (
	Owner = "cosmic"

	About = `Cosmic: developer, 3D artist and electronics tinkerer. Type 'help' to look around.`

	Greeting = `Hey there, I'm Cosmic!
I build things that blink, fly and render: embedded firmware, drones,
Blender scenes and the occasional website like this one.
Poke around with 'ls' and 'cat', and try 'git log' if you are curious
about where this page came from.`

	Skills = `languages: Go, C, Python, JavaScript
hardware:  ESP32, STM32, soldering, PCB layout
creative:  Blender, DaVinci Resolve, Figma
flying:    FPV drones, mapping runs`

	Contact = `mail:   hello@cosmic.dev
github: github.com/cosmic
site:   you are already here`

	ProjectDrone = `Custom 5" FPV quad with a hand-tuned Betaflight profile and a
telemetry overlay rendered on an ESP32.`

	ProjectBlender = `A series of short looping renders of a space station interior,
modelled and lit in Blender, composited in Resolve.`

	ProjectEmbedded = `A weather station on an STM32 with e-ink display, running for a
year on two AA batteries.`

	Notes = `todo: finish the drone mapping write-up
todo: redo the lighting in the station render`

	ResumePDF = `%PDF-1.7 (binary content not shown)`
)

// Taglines are cycled by the typewriter effect under the page title.
var Taglines = []string{
	"Tech Enthusiast.",
	"Developer.",
	"Designer.",
	"Embedded System Dev",
	"3D Artist.",
	"Video Editor.",
	"Blender Creator.",
	"VibeCoder.",
	"Electronics Tinkerer.",
	"Drone Pilot.",
}

// Stat is one of the animated counters on the page.
type Stat struct {
	Label  string
	Target int
}

var Stats = []Stat{
	{Label: "Lines of code", Target: 48000},
	{Label: "Renders", Target: 1500},
	{Label: "Flight hours", Target: 320},
	{Label: "Boards soldered", Target: 2000},
}

// Project is a card in the projects section of the page.
type Project struct {
	Title string
	Body  string
}

var Projects = []Project{
	{Title: "FPV Drone", Body: ProjectDrone},
	{Title: "Station Renders", Body: ProjectBlender},
	{Title: "E-ink Weather Station", Body: ProjectEmbedded},
}
