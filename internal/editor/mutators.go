package editor

import (
	"slices"

	"go.uber.org/zap"

	"sitecms/internal/model"
)

func (s *Session) UpdateHero(h model.Hero) {
	_ = s.edit(func(doc *model.SiteContent) error {
		doc.Hero = h
		return nil
	})
}

func (s *Session) UpdateAbout(a model.About) {
	_ = s.edit(func(doc *model.SiteContent) error {
		doc.About = a
		return nil
	})
}

// UpdateTracking replaces the tracking settings; nil removes them.
func (s *Session) UpdateTracking(t *model.Tracking) {
	_ = s.edit(func(doc *model.SiteContent) error {
		if t == nil {
			doc.Tracking = nil
			return nil
		}
		cp := *t
		doc.Tracking = &cp
		return nil
	})
	if t != nil {
		s.logger.Info("tracking updated", zap.Object("tracking", *t))
	}
}

// SetCategories replaces the category labels. Blank and repeated labels are dropped,
// first occurrence wins.
func (s *Session) SetCategories(labels []string) {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	_ = s.edit(func(doc *model.SiteContent) error {
		doc.Categories = out
		return nil
	})
}

func (s *Session) SetTechnicalSkills(skills []model.SkillCategory) {
	cp := make([]model.SkillCategory, len(skills))
	for i, sc := range skills {
		sc.Skills = slices.Clone(sc.Skills)
		cp[i] = sc
	}
	_ = s.edit(func(doc *model.SiteContent) error {
		doc.TechnicalSkills = cp
		return nil
	})
}

// AddExperience appends e and returns the id it was stored under.
func (s *Session) AddExperience(e model.Experience) string {
	e.Tags = slices.Clone(e.Tags)
	_ = s.edit(func(doc *model.SiteContent) error {
		e.ID = s.assignID(e.ID, idsOf(doc.Experiences, experienceID))
		doc.Experiences = append(doc.Experiences, e)
		return nil
	})
	return e.ID
}

func (s *Session) RemoveExperience(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Experiences, id, experienceID)
	})
}

func (s *Session) AddService(sv model.Service) string {
	sv.Features = slices.Clone(sv.Features)
	_ = s.edit(func(doc *model.SiteContent) error {
		sv.ID = s.assignID(sv.ID, idsOf(doc.Services, serviceID))
		doc.Services = append(doc.Services, sv)
		return nil
	})
	return sv.ID
}

func (s *Session) RemoveService(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Services, id, serviceID)
	})
}

// AddProject appends p. A category outside the category list is accepted but logged.
func (s *Session) AddProject(p model.Project) string {
	p.TechStack = slices.Clone(p.TechStack)
	_ = s.edit(func(doc *model.SiteContent) error {
		p.ID = s.assignID(p.ID, idsOf(doc.Projects, projectID))
		doc.Projects = append(doc.Projects, p)
		s.checkCategory(doc, p)
		return nil
	})
	return p.ID
}

// UpdateProject replaces the project with the same id.
func (s *Session) UpdateProject(p model.Project) error {
	p.TechStack = slices.Clone(p.TechStack)
	return s.edit(func(doc *model.SiteContent) error {
		i := slices.IndexFunc(doc.Projects, func(x model.Project) bool { return x.ID == p.ID })
		if i < 0 {
			return ErrItemNotFound
		}
		doc.Projects[i] = p
		s.checkCategory(doc, p)
		return nil
	})
}

func (s *Session) RemoveProject(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Projects, id, projectID)
	})
}

func (s *Session) AddBlog(b model.BlogPost) string {
	_ = s.edit(func(doc *model.SiteContent) error {
		b.ID = s.assignID(b.ID, idsOf(doc.Blogs, blogID))
		doc.Blogs = append(doc.Blogs, b)
		return nil
	})
	return b.ID
}

func (s *Session) RemoveBlog(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Blogs, id, blogID)
	})
}

func (s *Session) AddTestimonial(t model.Testimonial) string {
	_ = s.edit(func(doc *model.SiteContent) error {
		t.ID = s.assignID(t.ID, idsOf(doc.Testimonials, testimonialID))
		doc.Testimonials = append(doc.Testimonials, t)
		return nil
	})
	return t.ID
}

func (s *Session) RemoveTestimonial(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Testimonials, id, testimonialID)
	})
}

func (s *Session) AddNiche(n model.Niche) string {
	_ = s.edit(func(doc *model.SiteContent) error {
		n.ID = s.assignID(n.ID, idsOf(doc.Niches, nicheID))
		doc.Niches = append(doc.Niches, n)
		return nil
	})
	return n.ID
}

func (s *Session) RemoveNiche(id string) error {
	return s.edit(func(doc *model.SiteContent) error {
		return removeByID(&doc.Niches, id, nicheID)
	})
}

func (s *Session) checkCategory(doc *model.SiteContent, p model.Project) {
	if p.Category != "" && !slices.Contains(doc.Categories, p.Category) {
		s.logger.Warn("project category not in category list",
			zap.String("project_id", p.ID),
			zap.String("category", p.Category),
		)
	}
}

func experienceID(e model.Experience) string   { return e.ID }
func serviceID(sv model.Service) string        { return sv.ID }
func projectID(p model.Project) string         { return p.ID }
func blogID(b model.BlogPost) string           { return b.ID }
func testimonialID(t model.Testimonial) string { return t.ID }
func nicheID(n model.Niche) string             { return n.ID }

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// removeByID deletes the first item with the given id.
func removeByID[T any](items *[]T, id string, idOf func(T) string) error {
	i := slices.IndexFunc(*items, func(x T) bool { return idOf(x) == id })
	if i < 0 {
		return ErrItemNotFound
	}
	*items = slices.Delete(*items, i, i+1)
	return nil
}
