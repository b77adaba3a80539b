package model

import (
	"fmt"
	"sort"

	"go.uber.org/zap/zapcore"
)

// SiteContent is the single aggregate document holding all editable site content.
// It is persisted and transmitted as a whole; there are no partial updates.
type SiteContent struct {
	Hero            Hero            `json:"hero" yaml:"hero"`
	About           About           `json:"about" yaml:"about"`
	Tracking        *Tracking       `json:"tracking,omitempty" yaml:"tracking,omitempty"`
	Categories      []string        `json:"categories" yaml:"categories"`
	Experiences     []Experience    `json:"experiences" yaml:"experiences"`
	Services        []Service       `json:"services" yaml:"services"`
	Projects        []Project       `json:"projects" yaml:"projects"`
	Blogs           []BlogPost      `json:"blogs" yaml:"blogs"`
	Testimonials    []Testimonial   `json:"testimonials" yaml:"testimonials"`
	TechnicalSkills []SkillCategory `json:"technicalSkills" yaml:"technicalSkills"`
	Niches          []Niche         `json:"niches" yaml:"niches"`
}

type Hero struct {
	Headline          string `json:"headline" yaml:"headline"`
	Subheadline       string `json:"subheadline" yaml:"subheadline"`
	Image             string `json:"image" yaml:"image"`
	ProjectsCompleted int    `json:"projectsCompleted" yaml:"projectsCompleted"`
	StartupsRaised    int    `json:"startupsRaised" yaml:"startupsRaised"`
}

type About struct {
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	EngagementStat string `json:"engagementStat" yaml:"engagementStat"`
	ImageMain      string `json:"imageMain" yaml:"imageMain"`
	ImageSecondary string `json:"imageSecondary" yaml:"imageSecondary"`
	Point1         string `json:"point1" yaml:"point1"`
	Point2         string `json:"point2" yaml:"point2"`
}

// Tracking is an opaque credential bundle for the ad pixel and conversions API.
// CapiToken is a secret: String and MarshalLogObject never expose it.
type Tracking struct {
	PixelID       string `json:"pixelId" yaml:"pixelId"`
	CapiToken     string `json:"capiToken" yaml:"capiToken"`
	TestEventCode string `json:"testEventCode,omitempty" yaml:"testEventCode,omitempty"`
}

type Experience struct {
	ID        string   `json:"id" yaml:"id"`
	Company   string   `json:"company" yaml:"company"`
	Date      string   `json:"date" yaml:"date"`
	Role      string   `json:"role" yaml:"role"`
	Tags      []string `json:"tags" yaml:"tags"`
	Highlight bool     `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

type Service struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	Features    []string `json:"features" yaml:"features"`
}

// Project.Category should reference an entry of SiteContent.Categories; this is not enforced.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
	TechStack   []string `json:"techStack" yaml:"techStack"`
	LiveLink    string   `json:"liveLink" yaml:"liveLink"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

type BlogPost struct {
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
	Time     string `json:"time" yaml:"time"`
	Title    string `json:"title" yaml:"title"`
	Image    string `json:"image" yaml:"image"`
	Date     string `json:"date" yaml:"date"`
}

type Testimonial struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	Avatar  string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

type SkillCategory struct {
	Category string   `json:"category" yaml:"category"`
	Icon     string   `json:"icon" yaml:"icon"`
	Skills   []string `json:"skills" yaml:"skills"`
}

type Niche struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// MaskedToken returns the access token with everything but the last four characters hidden.
func (t Tracking) MaskedToken() string {
	if t.CapiToken == "" {
		return ""
	}
	if len(t.CapiToken) <= 4 {
		return "****"
	}
	return "****" + t.CapiToken[len(t.CapiToken)-4:]
}

func (t Tracking) String() string {
	return fmt.Sprintf("Tracking{PixelID:%s CapiToken:%s TestEventCode:%s}", t.PixelID, t.MaskedToken(), t.TestEventCode)
}

// MarshalLogObject lets zap log tracking settings without leaking the token.
func (t Tracking) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pixel_id", t.PixelID)
	enc.AddBool("capi_token_set", t.CapiToken != "")
	if t.TestEventCode != "" {
		enc.AddString("test_event_code", t.TestEventCode)
	}
	return nil
}

// Clone returns a deep copy so that edits on the copy never alias the original.
func (s SiteContent) Clone() SiteContent {
	out := s
	if s.Tracking != nil {
		t := *s.Tracking
		out.Tracking = &t
	}
	out.Categories = cloneStrings(s.Categories)
	if s.Experiences != nil {
		out.Experiences = make([]Experience, len(s.Experiences))
		for i, e := range s.Experiences {
			e.Tags = cloneStrings(e.Tags)
			out.Experiences[i] = e
		}
	}
	if s.Services != nil {
		out.Services = make([]Service, len(s.Services))
		for i, sv := range s.Services {
			sv.Features = cloneStrings(sv.Features)
			out.Services[i] = sv
		}
	}
	if s.Projects != nil {
		out.Projects = make([]Project, len(s.Projects))
		for i, p := range s.Projects {
			p.TechStack = cloneStrings(p.TechStack)
			out.Projects[i] = p
		}
	}
	out.Blogs = cloneSlice(s.Blogs)
	out.Testimonials = cloneSlice(s.Testimonials)
	if s.TechnicalSkills != nil {
		out.TechnicalSkills = make([]SkillCategory, len(s.TechnicalSkills))
		for i, sc := range s.TechnicalSkills {
			sc.Skills = cloneStrings(sc.Skills)
			out.TechnicalSkills[i] = sc
		}
	}
	out.Niches = cloneSlice(s.Niches)
	return out
}

func cloneStrings(in []string) []string {
	return cloneSlice(in)
}

// cloneSlice copies a slice of value types, keeping nil and empty distinct.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// DuplicateIDs reports ids that occur more than once within the same list, keyed by list name.
// Uniqueness is a caller convention; nothing rejects a document with duplicates.
func (s SiteContent) DuplicateIDs() map[string][]string {
	out := make(map[string][]string)
	check := func(list string, ids []string) {
		seen := make(map[string]int, len(ids))
		for _, id := range ids {
			seen[id]++
		}
		var dups []string
		for id, n := range seen {
			if n > 1 {
				dups = append(dups, id)
			}
		}
		if len(dups) > 0 {
			sort.Strings(dups)
			out[list] = dups
		}
	}

	ids := make([]string, 0, len(s.Experiences))
	for _, e := range s.Experiences {
		ids = append(ids, e.ID)
	}
	check("experiences", ids)

	ids = ids[:0:0]
	for _, sv := range s.Services {
		ids = append(ids, sv.ID)
	}
	check("services", ids)

	ids = ids[:0:0]
	for _, p := range s.Projects {
		ids = append(ids, p.ID)
	}
	check("projects", ids)

	ids = ids[:0:0]
	for _, b := range s.Blogs {
		ids = append(ids, b.ID)
	}
	check("blogs", ids)

	ids = ids[:0:0]
	for _, t := range s.Testimonials {
		ids = append(ids, t.ID)
	}
	check("testimonials", ids)

	ids = ids[:0:0]
	for _, n := range s.Niches {
		ids = append(ids, n.ID)
	}
	check("niches", ids)

	return out
}
