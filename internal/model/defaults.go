package model

// ContentKeys lists every top-level key of a SiteContent document, in wire order.
var ContentKeys = []string{
	"hero",
	"about",
	"tracking",
	"categories",
	"experiences",
	"services",
	"projects",
	"blogs",
	"testimonials",
	"technicalSkills",
	"niches",
}

// StatusNewSystem is returned by the persistence endpoint when nothing has been saved yet.
const StatusNewSystem = "new_system"

// DefaultCategories are the project classification labels shipped with a fresh site.
var DefaultCategories = []string{"Law", "Medical", "E-commerce", "Business", "Education", "Personal"}

// DefaultSiteContent returns a fresh copy of the built-in default document.
// Every call returns independent slices, so callers may mutate the result freely.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Hero: Hero{
			Headline:          "Hello",
			Subheadline:       "— It's khairulahsan a design wizard",
			Image:             "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&q=80&w=1200",
			ProjectsCompleted: 200,
			StartupsRaised:    50,
		},
		About: About{
			Title:          "About Me",
			Description:    "I specialize in turning complex problems into elegant solutions.",
			EngagementStat: "120%",
			ImageMain:      "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&q=80&w=800",
			ImageSecondary: "https://images.unsplash.com/photo-1497366216548-37526070297c?auto=format&fit=crop&q=80&w=800",
			Point1:         "With 4+ years of experience in high-end design.",
			Point2:         "Blending creativity with strategy for global brands.",
		},
		Categories:  cloneStrings(DefaultCategories),
		Experiences: []Experience{},
		Services:    []Service{},
		Projects: []Project{
			{
				ID:        "p1",
				Title:     "Halo Digital Agency",
				Category:  "Business",
				Image:     "https://images.unsplash.com/photo-1589829545856-d10d557cf95f?auto=format&fit=crop&q=80&w=800",
				TechStack: []string{"React", "Tailwind"},
				LiveLink:  "https://google.com",
			},
		},
		Blogs:           []BlogPost{},
		Testimonials:    []Testimonial{},
		TechnicalSkills: []SkillCategory{},
		Niches:          []Niche{},
	}
}
