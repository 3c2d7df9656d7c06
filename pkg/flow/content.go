package flow

// Static copy for each view.
const (
	welcomeTitle    = "Many Ways to Be Here"
	welcomeSubtitle = "A reflection on student life, adaptation, and community."

	buildTitle  = "Build a Day in the City"
	buildPrompt = "Select everything that feels true to your experience."
	buildHint   = "Select at least one experience to finish."

	shapesTitle = "What This Experience Shapes"

	whyTitle      = "Why This Matters"
	voicesHeading = "Student Voices"

	footerCredit = "Created by Emily Mendoza Dominguez"
)

var welcomeBody = []string{
	"This project explores how students experience life differently " +
		"not through achievements, but through daily realities.",
	"In a city shaped by movement and diversity, no two paths look the same. " +
		"Community forms when those differences are seen.",
}

var whyBody = []string{
	"Students arrive with different routines, responsibilities, and starting points " +
		"all shaped by environment and circumstance.",
	"Recognizing these differences is part of what turns a shared space " +
		"into a real community.",
}
