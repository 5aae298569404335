package content

// Profile text shown by the base shell. Kept as Go literals rather than
// fixtures since it is prose, not a dataset.
var (
	Owner = "Zach Kordas-Potter"
	Role  = "Software Developer"

	AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
different language, experimenting with tools, or solving tricky problems.
When I'm not coding, you'll usually find me training Muay Thai, shooting pool with friends,
or chasing down a new challenge outside the screen.`

	Skills = map[string][]string{
		"Languages": {"Go", "Python", "JavaScript", "SQL"},
		"Web":       {"Gin", "HTMX", "Alpine.js", "Tailwind CSS"},
		"Tooling":   {"Git", "Docker", "Linux", "GitHub Actions"},
		"Data":      {"SQLite", "PostgreSQL", "scikit-learn", "pandas"},
	}

	// SkillOrder fixes the display order of Skills.
	SkillOrder = []string{"Languages", "Web", "Tooling", "Data"}

	Contact = []Link{
		{Label: "GitHub", URL: "https://github.com/Zachkp"},
		{Label: "Email", URL: "mailto:zachkordaspotter@gmail.com"},
	}

	Experience = []Position{
		{
			Title:   "Presentation Expert",
			Company: "Target",
			Start:   "Aug 2023",
			End:     "Present",
			Bullets: []string{
				"Executed over 300 merchandising transitions on tight timelines by organizing team workflows and adapting quickly to changing priorities",
				"Boosted operational efficiency by managing backroom inventory processes and streamlining communication between floor and logistics teams",
			},
		},
		{
			Title:   "Manager",
			Company: "Jasons Catered Events",
			Start:   "Aug 2016",
			End:     "Present",
			Bullets: []string{
				"Supported event technology by troubleshooting AV equipment and managing digital order tracking systems",
				"Maintained supply inventory and coordinated timely delivery between venues",
			},
		},
	}

	Education = []Position{
		{
			Title:   "Bachelor of Computer Science",
			Company: "Western Governors University",
			Start:   "Sept 2019",
			End:     "May 2023",
			Bullets: []string{
				"Relevant coursework: Data Structures, Algorithms, Web Development",
				"Senior project: Machine Learning recommendation system",
			},
		},
	}
)

type Link struct {
	Label string
	URL   string
}

// Position is one entry of work or education history.
type Position struct {
	Title   string
	Company string
	Start   string
	End     string
	Bullets []string
}
