package vfs

import "github.com/Zachkp/cosmic-portfolio/internal/content"

// HomePath is where every terminal session starts.
var HomePath = []string{"home", content.Owner, "portfolio"}

// Portfolio builds the tree the terminal browses.
func Portfolio() *FS {
	return New(Dir("",
		Dir("home",
			Dir(content.Owner,
				Dir("portfolio",
					File("aboutme.txt", content.Greeting),
					File("skills.txt", content.Skills),
					Dir("projects",
						File("drone.txt", content.ProjectDrone),
						File("blender.txt", content.ProjectBlender),
						File("embedded.txt", content.ProjectEmbedded),
					),
					Dir("photos",
						File("avatar.png", ""),
						File("workbench.jpg", ""),
						File("drone-shot.jpg", ""),
						File("sketch.bmp", ""),
					),
					File("contact.txt", content.Contact),
					File("resume.pdf", content.ResumePDF),
				),
				File("notes.txt", content.Notes),
			),
		),
	))
}
